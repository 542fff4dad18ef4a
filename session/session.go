package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Dir is where sessions are stored, relative to the working directory.
var Dir = filepath.Join(".prompter", "sessions")

type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant", "command"
	Content string `json:"content"`
}

type Session struct {
	Name     string    `json:"name"`
	Messages []Message `json:"messages"`
	path     string
}

// New creates a new session.
func New(name string) (*Session, error) {
	path, err := getSessionPath(name)
	if err != nil {
		return nil, err
	}
	return &Session{
		Name:     name,
		Messages: []Message{},
		path:     path,
	}, nil
}

// Load loads an existing session from disk.
func Load(name string) (*Session, error) {
	path, err := getSessionPath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read session file %s: %w", path, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("could not parse session file %s: %w", path, err)
	}
	s.path = path
	return &s, nil
}

// Save writes the current session state to disk.
func (s *Session) Save() error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}
	return os.WriteFile(s.path, data, 0644)
}

// Path returns the file the session is saved to.
func (s *Session) Path() string { return s.path }

// AddMessage appends a message to the session history.
func (s *Session) AddMessage(msg Message) {
	s.Messages = append(s.Messages, msg)
}

// Conversation returns the messages an LLM should see, leaving out command
// lines the user typed.
func (s *Session) Conversation() []Message {
	out := make([]Message, 0, len(s.Messages))
	for _, m := range s.Messages {
		if m.Role == "command" {
			continue
		}
		out = append(out, m)
	}
	return out
}

func getSessionPath(name string) (string, error) {
	if err := os.MkdirAll(Dir, 0755); err != nil {
		return "", fmt.Errorf("could not create session directory: %w", err)
	}
	return filepath.Join(Dir, fmt.Sprintf("%s.json", name)), nil
}
