package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactoryOrderDoesNotMatter(t *testing.T) {
	inputs := []string{":foo bar", "foo", "  ", ":", "x:y"}

	forward := &recorder{}
	pf := NewFactory().
		WithLogHandler(forward.log).
		WithCommandHandler(forward.command).
		WithSuggestionHandler(forward.suggestion).
		Build()

	reverse := &recorder{}
	pr := NewFactory().
		WithSuggestionHandler(reverse.suggestion).
		WithCommandHandler(reverse.command).
		WithLogHandler(reverse.log).
		Build()

	for _, in := range inputs {
		assert.Equal(t, pf.Evaluate(in), pr.Evaluate(in), "input %q", in)
	}
	assert.Equal(t, forward.logs, reverse.logs)
	assert.Equal(t, forward.commands, reverse.commands)
	assert.Equal(t, forward.suggestions, reverse.suggestions)
}

func TestFactoryLastWriteWins(t *testing.T) {
	first, second := &recorder{}, &recorder{}

	p := NewFactory().
		WithCommandHandler(func(bool) {}).
		WithLogHandler(first.log).
		WithLogHandler(second.log).
		Build()

	p.Evaluate(":x")

	assert.Empty(t, first.logs)
	assert.Equal(t, []string{CommandFoundMessage}, second.logs)
}

func TestFactoryClearingCommandHandlerDisablesEvaluation(t *testing.T) {
	rec := &recorder{}
	p := NewFactory().
		WithLogHandler(rec.log).
		WithCommandHandler(rec.command).
		WithCommandHandler(nil).
		Build()

	assert.Equal(t, OutcomeSkipped, p.Evaluate(":x"))
	assert.Empty(t, rec.logs)
}

func TestFactoryBuildReturnsFreshInstances(t *testing.T) {
	f := NewFactory().WithCommandHandler(func(bool) {})

	a := f.Build()
	b := f.Build()

	assert.NotSame(t, a, b)
	assert.Equal(t, a.Evaluate(":x"), b.Evaluate(":x"))
}

func TestFactoryChangesDoNotAffectBuiltPrompts(t *testing.T) {
	rec := &recorder{}
	f := NewFactory().WithCommandHandler(func(bool) {})
	built := f.Build()

	f.WithLogHandler(rec.log).WithCommandPrefixes('/')

	assert.Equal(t, OutcomeCommand, built.Evaluate(":x"))
	assert.Equal(t, OutcomeNoMatch, built.Evaluate("/x"))
	assert.Empty(t, rec.logs)

	rebuilt := f.Build()
	assert.Equal(t, OutcomeCommand, rebuilt.Evaluate("/x"))
	assert.Len(t, rec.logs, 1)
}

func TestFactoryEmptyPrefixesKeepDefault(t *testing.T) {
	p := NewFactory().
		WithCommandPrefixes().
		WithCommandHandler(func(bool) {}).
		Build()

	assert.True(t, p.IsPrefix(DefaultCommandPrefix))
	assert.Equal(t, OutcomeCommand, p.Evaluate(":x"))
}

func TestFactoryPrefixSliceIsCopied(t *testing.T) {
	prefixes := []rune{'/'}
	f := NewFactory().WithCommandPrefixes(prefixes...).WithCommandHandler(func(bool) {})
	prefixes[0] = '#'

	p := f.Build()
	assert.True(t, p.IsPrefix('/'))
	assert.False(t, p.IsPrefix('#'))
}
