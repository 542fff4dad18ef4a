// Package prompt classifies lines of user input as commands or plain text.
//
// A Prompt inspects the first character of each trimmed line. When that
// character is one of the registered command prefixes (":" by default) the
// line is a command. Hosts register handlers through a Factory and feed lines
// into Prompt.Evaluate from their own read loop:
//
//	p := prompt.NewFactory().
//	    WithLogHandler(func(text string) { log.Println(text) }).
//	    WithCommandHandler(func(started bool) {}).
//	    Build()
//
//	switch p.Evaluate(line) {
//	case prompt.OutcomeCommand:
//	    // dispatch the command
//	case prompt.OutcomeNoMatch, prompt.OutcomeSkipped:
//	    // treat as plain text
//	}
//
// # Handlers
//
// The log handler receives "Command found" each time a command line is
// detected. The command handler gates evaluation: without one, Evaluate
// returns OutcomeSkipped and never looks at the prefix. Neither the command
// handler nor the suggestion handler is ever called; callers should act on
// the returned Outcome instead.
//
// # Command mode
//
// Evaluate enters command mode on a match and leaves it again before it
// returns, so InCommandMode reports false between calls.
package prompt
