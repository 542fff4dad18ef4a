package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/m4xw311/prompter/config"
	"github.com/m4xw311/prompter/errors"
	"github.com/m4xw311/prompter/session"
)

// NewDefaultRegistry registers the built-in commands. caller may be nil when
// no MCP servers are configured.
func NewDefaultRegistry(cfg *config.Config, sess *session.Session, caller ToolCaller) *Registry {
	r := NewRegistry()
	r.Register(&HelpCommand{registry: r})
	r.Register(&QuitCommand{})
	r.Alias("exit", "quit")
	r.Register(&HistoryCommand{session: sess})
	r.Register(&SaveCommand{session: sess})
	r.Register(&ReadFileCommand{fsAccess: &cfg.FilesystemAccess})
	r.Register(&RunCommand{allowedCommands: cfg.AllowedCommands})
	if caller != nil {
		r.Register(&MCPCommand{caller: caller})
	}
	return r
}

// HelpCommand lists the registered commands.
type HelpCommand struct {
	registry *Registry
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "List available commands." }

func (c *HelpCommand) Execute(ctx context.Context, args []string) (string, error) {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, cmd := range c.registry.List() {
		fmt.Fprintf(&b, "  %-8s %s\n", cmd.Name(), cmd.Description())
	}
	return b.String(), nil
}

// QuitCommand ends the terminal session.
type QuitCommand struct{}

func (c *QuitCommand) Name() string        { return "quit" }
func (c *QuitCommand) Description() string { return "End the session (alias: exit)." }

func (c *QuitCommand) Execute(ctx context.Context, args []string) (string, error) {
	return "", ErrQuit
}

// HistoryCommand prints the session transcript.
type HistoryCommand struct {
	session *session.Session
}

func (c *HistoryCommand) Name() string { return "history" }
func (c *HistoryCommand) Description() string {
	return "Show the conversation so far. Args: [count]."
}

func (c *HistoryCommand) Execute(ctx context.Context, args []string) (string, error) {
	msgs := c.session.Messages
	if len(args) > 0 {
		var n int
		if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil || n < 0 {
			return "", errors.New("invalid count '%s'", args[0])
		}
		if n < len(msgs) {
			msgs = msgs[len(msgs)-n:]
		}
	}
	if len(msgs) == 0 {
		return "No messages yet.", nil
	}

	var b strings.Builder
	for _, m := range msgs {
		fmt.Fprintf(&b, "[%s] %s\n", m.Role, m.Content)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// SaveCommand writes the session to disk.
type SaveCommand struct {
	session *session.Session
}

func (c *SaveCommand) Name() string        { return "save" }
func (c *SaveCommand) Description() string { return "Save the session to disk." }

func (c *SaveCommand) Execute(ctx context.Context, args []string) (string, error) {
	if err := c.session.Save(); err != nil {
		return "", errors.Wrapf(err, "failed to save session '%s'", c.session.Name)
	}
	return fmt.Sprintf("Session '%s' saved to %s", c.session.Name, c.session.Path()), nil
}
