package prompt

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// recorder captures every handler invocation.
type recorder struct {
	mu          sync.Mutex
	logs        []string
	commands    []bool
	suggestions []bool
}

func (r *recorder) log(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, text)
}

func (r *recorder) command(started bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, started)
}

func (r *recorder) suggestion(started bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suggestions = append(r.suggestions, started)
}

func (r *recorder) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.logs) + len(r.commands) + len(r.suggestions)
}

func newRecorded(withCommand bool) (*Prompt, *recorder) {
	rec := &recorder{}
	f := NewFactory().
		WithLogHandler(rec.log).
		WithSuggestionHandler(rec.suggestion)
	if withCommand {
		f.WithCommandHandler(rec.command)
	}
	return f.Build(), rec
}

func TestEvaluateWhitespaceFiresNothing(t *testing.T) {
	inputs := []string{"", " ", "\t", "   \t  ", "\u00a0\u3000"}
	for _, in := range inputs {
		p, rec := newRecorded(true)
		assert.Equal(t, OutcomeEmpty, p.Evaluate(in), "input %q", in)
		assert.Zero(t, rec.total(), "input %q", in)
		assert.False(t, p.InCommandMode())
	}
}

func TestEvaluateKeepsLineBreaks(t *testing.T) {
	tests := []struct {
		input string
		want  Outcome
	}{
		{"\n:x", OutcomeNoMatch},
		{"\r\n:x", OutcomeNoMatch},
		{" \n ", OutcomeNoMatch},
		{":x\n", OutcomeCommand},
	}
	for _, tc := range tests {
		p, rec := newRecorded(true)
		assert.Equal(t, tc.want, p.Evaluate(tc.input), "input %q", tc.input)
		if tc.want == OutcomeNoMatch {
			assert.Zero(t, rec.total(), "input %q", tc.input)
		} else {
			assert.Equal(t, []string{CommandFoundMessage}, rec.logs)
		}
	}
}

func TestEvaluateWithoutCommandHandlerIsSkipped(t *testing.T) {
	inputs := []string{":quit", ":", "hello", "  :x  ", "::"}
	for _, in := range inputs {
		p, rec := newRecorded(false)
		assert.Equal(t, OutcomeSkipped, p.Evaluate(in), "input %q", in)
		assert.Empty(t, rec.logs, "log handler must not fire for %q", in)
		assert.Zero(t, rec.total())
		assert.False(t, p.InCommandMode())
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		outcome Outcome
		logs    []string
	}{
		{"command with args", ":foo bar", OutcomeCommand, []string{CommandFoundMessage}},
		{"plain text", "foo bar", OutcomeNoMatch, nil},
		{"padded command", "  :x  ", OutcomeCommand, []string{CommandFoundMessage}},
		{"bare prefix", ":", OutcomeCommand, []string{CommandFoundMessage}},
		{"prefix later in line", "foo :bar", OutcomeNoMatch, nil},
		{"double prefix", "::", OutcomeCommand, []string{CommandFoundMessage}},
		{"multibyte text", "ünïcode", OutcomeNoMatch, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, rec := newRecorded(true)

			got := p.Evaluate(tc.input)

			assert.Equal(t, tc.outcome, got)
			assert.Equal(t, tc.logs, rec.logs)
			assert.Empty(t, rec.commands, "command handler is never called")
			assert.Empty(t, rec.suggestions)
			assert.False(t, p.InCommandMode())
		})
	}
}

func TestEvaluateTrimmedEquivalence(t *testing.T) {
	padded, padRec := newRecorded(true)
	bare, bareRec := newRecorded(true)

	assert.Equal(t, bare.Evaluate(":x"), padded.Evaluate("  :x  "))
	assert.Equal(t, bareRec.logs, padRec.logs)
}

func TestEvaluateNonMatchIsIdempotent(t *testing.T) {
	p, rec := newRecorded(true)

	first := p.Evaluate("foo bar")
	afterFirst := rec.total()
	second := p.Evaluate("foo bar")

	assert.Equal(t, first, second)
	assert.Zero(t, afterFirst)
	assert.Zero(t, rec.total())
	assert.False(t, p.InCommandMode())
}

// Command mode is entered and left inside a single Evaluate call, so no
// caller can ever observe it as true. This looks unfinished; the test pins
// the current behavior.
func TestCommandModeNeverObservable(t *testing.T) {
	var observed []bool
	var p *Prompt
	p = NewFactory().
		WithCommandHandler(func(bool) {}).
		WithLogHandler(func(string) { observed = append(observed, p.InCommandMode()) }).
		Build()

	for _, in := range []string{":a", ":b c d", "text", ":"} {
		p.Evaluate(in)
		observed = append(observed, p.InCommandMode())
	}

	for _, v := range observed {
		assert.False(t, v)
	}
}

func TestSuggestionHandlerNeverCalled(t *testing.T) {
	p, rec := newRecorded(true)
	inputs := []string{"", ":", ":cmd arg", "plain", "  ", "?", "/slash", ":::"}
	for i := 0; i < 3; i++ {
		for _, in := range inputs {
			p.Evaluate(in)
		}
	}
	assert.Empty(t, rec.suggestions)
}

func TestCustomPrefixes(t *testing.T) {
	rec := &recorder{}
	p := NewFactory().
		WithCommandPrefixes('/', '!').
		WithCommandHandler(rec.command).
		WithLogHandler(rec.log).
		Build()

	assert.Equal(t, OutcomeCommand, p.Evaluate("/help"))
	assert.Equal(t, OutcomeCommand, p.Evaluate("!ls -la"))
	assert.Equal(t, OutcomeNoMatch, p.Evaluate(":quit"), "default prefix is replaced")
	assert.Len(t, rec.logs, 2)
	assert.True(t, p.IsPrefix('/'))
	assert.False(t, p.IsPrefix(':'))
	assert.True(t, p.IsPrefix('!'))
}

func TestMultibytePrefix(t *testing.T) {
	p := NewFactory().
		WithCommandPrefixes('λ').
		WithCommandHandler(func(bool) {}).
		Build()

	assert.Equal(t, OutcomeCommand, p.Evaluate("λ eval"))
	assert.Equal(t, OutcomeNoMatch, p.Evaluate("lambda"))
}

func TestEvaluateNilLogHandler(t *testing.T) {
	p := NewFactory().WithCommandHandler(func(bool) {}).Build()
	require.NotPanics(t, func() {
		assert.Equal(t, OutcomeCommand, p.Evaluate(":x"))
	})
}

func TestEvaluateConcurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	p, rec := newRecorded(true)

	const workers = 16
	const perWorker = 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if i%2 == 0 {
					p.Evaluate(":cmd arg")
				} else {
					p.Evaluate("plain text")
				}
			}
		}(w)
	}
	wg.Wait()

	assert.Len(t, rec.logs, workers*perWorker/2)
	assert.False(t, p.InCommandMode())
}

func TestEvaluateReentrantHandler(t *testing.T) {
	var p *Prompt
	depth := 0
	p = NewFactory().
		WithCommandHandler(func(bool) {}).
		WithLogHandler(func(string) {
			depth++
			if depth < 3 {
				p.Evaluate(":again")
			}
		}).
		Build()

	assert.Equal(t, OutcomeCommand, p.Evaluate(":start"))
	assert.Equal(t, 3, depth)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "empty", OutcomeEmpty.String())
	assert.Equal(t, "skipped", OutcomeSkipped.String())
	assert.Equal(t, "no_match", OutcomeNoMatch.String())
	assert.Equal(t, "command", OutcomeCommand.String())
	assert.Equal(t, "unknown", Outcome(42).String())
	assert.True(t, OutcomeCommand.IsCommand())
	assert.False(t, OutcomeNoMatch.IsCommand())
}
