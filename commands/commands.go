// Package commands implements the commands a user can type after a command
// prefix, such as ":help" or ":run go test ./...".
package commands

import (
	"context"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/m4xw311/prompter/errors"
)

// ErrQuit is returned by the quit command to end the session.
var ErrQuit = errors.Sentinel("quit requested")

// Command is a single action reachable from a command line.
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, args []string) (string, error)
}

// RawCommand is implemented by commands that need the text after their name
// exactly as typed, instead of whitespace-split words.
type RawCommand interface {
	Command
	ExecuteRaw(ctx context.Context, rest string) (string, error)
}

// Registry maps command names to commands.
type Registry struct {
	commands map[string]Command
	aliases  map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		aliases:  make(map[string]string),
	}
}

func (r *Registry) Register(c Command) {
	r.commands[c.Name()] = c
}

// Alias makes alias resolve to the command registered as name.
func (r *Registry) Alias(alias, name string) {
	r.aliases[alias] = name
}

func (r *Registry) Get(name string) (Command, bool) {
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	c, ok := r.commands[name]
	return c, ok
}

// List returns the registered commands sorted by name.
func (r *Registry) List() []Command {
	out := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Dispatch runs a command line whose first character is a command prefix.
// The prefix is dropped and the first word names the command. A bare prefix
// runs "help". The remaining words are split on whitespace, unless the
// command is a RawCommand, which gets them unchanged.
func (r *Registry) Dispatch(ctx context.Context, line string) (string, error) {
	line = strings.TrimSpace(line)
	_, size := utf8.DecodeRuneInString(line)
	word, rest := cutWord(line[size:])
	if word == "" {
		word = "help"
	}

	name := strings.ToLower(word)
	c, ok := r.Get(name)
	if !ok {
		return "", errors.New("unknown command '%s', type help for a list", name)
	}
	if raw, ok := c.(RawCommand); ok {
		return raw.ExecuteRaw(ctx, rest)
	}
	return c.Execute(ctx, strings.Fields(rest))
}

// cutWord splits s into its first whitespace-delimited word and everything
// after the whitespace that follows it.
func cutWord(s string) (word, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return s, ""
	}
	return s[:end], strings.TrimLeftFunc(s[end:], unicode.IsSpace)
}

// isPathRestricted checks if a path matches any of the glob patterns.
func isPathRestricted(path string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		match, err := doublestar.PathMatch(pattern, path)
		if err != nil {
			return false, errors.Wrapf(err, "invalid glob pattern '%s'", pattern)
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

// isProgramAllowed checks the program name against the allowlist globs.
func isProgramAllowed(program string, allowed []string) (bool, error) {
	for _, pattern := range allowed {
		match, err := doublestar.Match(pattern, program)
		if err != nil {
			return false, errors.Wrapf(err, "invalid glob pattern '%s'", pattern)
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}
