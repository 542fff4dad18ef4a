package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/m4xw311/prompter/agent"
	"github.com/m4xw311/prompter/commands"
	"github.com/m4xw311/prompter/errors"
	"github.com/m4xw311/prompter/logging"
	"github.com/m4xw311/prompter/prompt"
	"github.com/peterh/liner"
)

// LineReader reads one line of user input at a time.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// LinerReader reads lines with line editing and a persistent history.
type LinerReader struct {
	line        *liner.State
	historyFile string
}

// NewLinerReader creates a LinerReader. An empty historyFile disables
// history persistence.
func NewLinerReader(historyFile string) *LinerReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	r := &LinerReader{line: line, historyFile: historyFile}
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			if _, err := line.ReadHistory(f); err != nil {
				logging.L().Warnw("could not read history", "file", historyFile, "error", err)
			}
			f.Close()
		}
	}
	return r
}

func (r *LinerReader) Prompt(p string) (string, error) { return r.line.Prompt(p) }

func (r *LinerReader) AppendHistory(item string) { r.line.AppendHistory(item) }

// Close saves the history and restores the terminal.
func (r *LinerReader) Close() error {
	if r.historyFile != "" {
		if err := r.saveHistory(); err != nil {
			logging.L().Warnw("could not save history", "file", r.historyFile, "error", err)
		}
	}
	return r.line.Close()
}

func (r *LinerReader) saveHistory() error {
	if err := os.MkdirAll(filepath.Dir(r.historyFile), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = r.line.WriteHistory(f)
	return err
}

// Terminal handles the terminal/CLI interaction mode for the agent
type Terminal struct {
	agent    *agent.Agent
	commands *commands.Registry
	prompt   *prompt.Prompt
	in       LineReader
	out      io.Writer
}

// New creates a Terminal. Lines starting with one of prefixes go to the
// command registry; an empty prefixes list means ":".
func New(a *agent.Agent, registry *commands.Registry, in LineReader, out io.Writer, prefixes ...rune) *Terminal {
	log := logging.L().With("component", "prompt")
	p := prompt.NewFactory().
		WithCommandPrefixes(prefixes...).
		WithLogHandler(func(text string) { log.Debug(text) }).
		WithCommandHandler(func(started bool) { log.Debugw("command mode changed", "started", started) }).
		WithSuggestionHandler(func(started bool) { log.Debugw("suggestion mode changed", "started", started) }).
		Build()

	return &Terminal{
		agent:    a,
		commands: registry,
		prompt:   p,
		in:       in,
		out:      out,
	}
}

// Run starts the interactive terminal session. It returns nil when the user
// quits, sends EOF or aborts with Ctrl-C.
func (t *Terminal) Run(ctx context.Context, initialPrompt string) error {
	if initialPrompt != "" {
		if t.handleLine(ctx, initialPrompt) {
			return nil
		}
	}

	for {
		input, err := t.in.Prompt("You: ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(t.out)
				return nil
			}
			return errors.Wrapf(err, "failed to read input")
		}
		if strings.TrimSpace(input) != "" {
			t.in.AppendHistory(input)
		}
		if t.handleLine(ctx, input) {
			return nil
		}
	}
}

// handleLine processes one line and reports whether the session should end.
func (t *Terminal) handleLine(ctx context.Context, line string) bool {
	outcome := t.prompt.Evaluate(line)
	logging.L().Debugw("line evaluated", "outcome", outcome.String())

	callbacks := agent.ProcessCallbacks{
		OnAssistantMessage: func(message string) {
			fmt.Fprintf(t.out, "Prompter: %s\n", message)
		},
		OnWarning: func(warning string) {
			fmt.Fprintf(t.out, "Warning: %s\n", warning)
		},
	}

	switch outcome {
	case prompt.OutcomeEmpty:
		return false
	case prompt.OutcomeCommand:
		trimmed := strings.TrimSpace(line)
		t.agent.RecordCommand(trimmed, callbacks)
		result, err := t.commands.Dispatch(ctx, trimmed)
		if errors.Is(err, commands.ErrQuit) {
			return true
		}
		if err != nil {
			fmt.Fprintf(t.out, "Error: %v\n", err)
			return false
		}
		if result != "" {
			fmt.Fprintln(t.out, result)
		}
		return false
	default:
		if err := t.agent.ProcessUserInput(ctx, strings.TrimSpace(line), callbacks); err != nil {
			fmt.Fprintf(t.out, "Error: %v\n", err)
		}
		return false
	}
}
