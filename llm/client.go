package llm

import (
	"context"
	"fmt"

	"github.com/m4xw311/prompter/errors"
	"github.com/m4xw311/prompter/session"
)

// LLMClient is the interface for interacting with a Large Language Model.
type LLMClient interface {
	Chat(ctx context.Context, messages []session.Message) (*session.Message, error)
}

// NewClient returns the client for the named provider. An empty or unknown
// name yields the mock client so the terminal works without credentials.
func NewClient(ctx context.Context, name, model string) (LLMClient, error) {
	var (
		client LLMClient
		err    error
	)
	switch name {
	case "anthropic":
		client, err = NewAnthropicLLMClient(ctx, model)
	case "openai":
		client, err = NewOpenAILLMClient(ctx, model)
	case "gemini":
		client, err = NewGeminiLLMClient(ctx, model)
	case "bedrock":
		client, err = NewBedrockLLMClient(ctx, model)
	default:
		return &MockLLMClient{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error initializing %s client", name)
	}
	return client, nil
}

// MockLLMClient echoes the last message back. Calls records every
// conversation it was given.
type MockLLMClient struct {
	Calls [][]session.Message
	Err   error
}

func (m *MockLLMClient) Chat(ctx context.Context, messages []session.Message) (*session.Message, error) {
	m.Calls = append(m.Calls, append([]session.Message(nil), messages...))
	if m.Err != nil {
		return nil, m.Err
	}
	if len(messages) == 0 {
		return &session.Message{Role: "assistant", Content: "I am a mock LLM. Say something."}, nil
	}
	last := messages[len(messages)-1].Content
	return &session.Message{
		Role:    "assistant",
		Content: fmt.Sprintf("I am a mock LLM. You said: '%s'.", last),
	}, nil
}

// splitSystem separates system messages from the rest. The last system
// message wins.
func splitSystem(messages []session.Message) (string, []session.Message) {
	var system string
	rest := make([]session.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == "system" {
			system = msg.Content
			continue
		}
		rest = append(rest, msg)
	}
	return system, rest
}
