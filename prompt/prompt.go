package prompt

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// CommandFoundMessage is sent to the log handler when a command line is detected.
const CommandFoundMessage = "Command found"

// DefaultCommandPrefix marks a command line unless other prefixes are configured.
const DefaultCommandPrefix = ':'

// LogHandler receives diagnostic messages.
type LogHandler func(text string)

// CommandHandler reports whether a command started or stopped.
type CommandHandler func(started bool)

// SuggestionHandler reports whether a suggestion started or stopped.
type SuggestionHandler func(started bool)

// Prompt classifies input lines. Create one with a Factory.
type Prompt struct {
	prefixes map[rune]struct{}

	onLog        LogHandler
	onCommand    CommandHandler
	onSuggestion SuggestionHandler

	mu            sync.Mutex
	inCommandMode bool
}

// Evaluate trims horizontal whitespace from text and checks whether it starts
// with a command prefix. Line breaks are not trimmed, so "\n:x" is not a
// command. It never fails. Handlers run on the caller's goroutine with no
// lock held, so they may call Evaluate again.
func (p *Prompt) Evaluate(text string) Outcome {
	trimmed := strings.TrimFunc(text, isHorizontalSpace)
	if len(trimmed) == 0 {
		return OutcomeEmpty
	}
	if p.onCommand == nil {
		return OutcomeSkipped
	}
	return p.ensureCommandPrefix(trimmed)
}

// InCommandMode reports whether the prompt is currently parsing a command.
func (p *Prompt) InCommandMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inCommandMode
}

// IsPrefix reports whether r is a configured command prefix.
func (p *Prompt) IsPrefix(r rune) bool {
	_, ok := p.prefixes[r]
	return ok
}

func (p *Prompt) ensureCommandPrefix(text string) Outcome {
	first, _ := utf8.DecodeRuneInString(text)
	if !p.IsPrefix(first) {
		p.resetCommandMode()
		return OutcomeNoMatch
	}

	if p.onLog != nil {
		p.onLog(CommandFoundMessage)
	}
	p.setCommandMode()
	// The words are not consumed yet, so command mode ends right away.
	// TODO: report the start/stop transition through onCommand once command
	// parsing consumes the words.
	words := strings.Split(text, " ")
	if len(words) > 0 {
		p.resetCommandMode()
	}
	return OutcomeCommand
}

func (p *Prompt) setCommandMode() {
	p.mu.Lock()
	p.inCommandMode = true
	p.mu.Unlock()
}

func (p *Prompt) resetCommandMode() {
	p.mu.Lock()
	p.inCommandMode = false
	p.mu.Unlock()
}

// isHorizontalSpace matches tabs and Unicode space separators, not line
// breaks.
func isHorizontalSpace(r rune) bool {
	return r == '\t' || unicode.Is(unicode.Zs, r)
}
