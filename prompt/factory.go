package prompt

// Factory collects handlers and prefixes for a Prompt. Every setter returns
// the factory so calls can be chained. The last registration of each handler
// wins.
type Factory struct {
	prefixes     []rune
	onLog        LogHandler
	onCommand    CommandHandler
	onSuggestion SuggestionHandler
}

// NewFactory returns a factory configured with the default ":" prefix.
func NewFactory() *Factory {
	return &Factory{prefixes: []rune{DefaultCommandPrefix}}
}

// WithLogHandler sets the handler that receives diagnostic messages.
func (f *Factory) WithLogHandler(h LogHandler) *Factory {
	f.onLog = h
	return f
}

// WithCommandHandler sets the command handler. A Prompt only checks for
// command prefixes when this handler is set.
func (f *Factory) WithCommandHandler(h CommandHandler) *Factory {
	f.onCommand = h
	return f
}

// WithSuggestionHandler sets the suggestion handler. It is stored but
// nothing calls it yet.
func (f *Factory) WithSuggestionHandler(h SuggestionHandler) *Factory {
	f.onSuggestion = h
	return f
}

// WithCommandPrefixes replaces the set of command prefixes. Calling it with
// no prefixes keeps the current set.
func (f *Factory) WithCommandPrefixes(prefixes ...rune) *Factory {
	if len(prefixes) == 0 {
		return f
	}
	f.prefixes = append([]rune(nil), prefixes...)
	return f
}

// Build returns a new Prompt with the factory's current configuration.
// Later changes to the factory do not affect prompts already built.
func (f *Factory) Build() *Prompt {
	set := make(map[rune]struct{}, len(f.prefixes))
	for _, r := range f.prefixes {
		set[r] = struct{}{}
	}
	return &Prompt{
		prefixes:     set,
		onLog:        f.onLog,
		onCommand:    f.onCommand,
		onSuggestion: f.onSuggestion,
	}
}
