package prompt

// Outcome is the result of evaluating a single line.
type Outcome int

const (
	// OutcomeEmpty means the line was empty after trimming whitespace.
	OutcomeEmpty Outcome = iota
	// OutcomeSkipped means no command handler was registered, so the prefix
	// was never checked.
	OutcomeSkipped
	// OutcomeNoMatch means the line does not start with a command prefix.
	OutcomeNoMatch
	// OutcomeCommand means the line starts with a command prefix.
	OutcomeCommand
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEmpty:
		return "empty"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeCommand:
		return "command"
	default:
		return "unknown"
	}
}

// IsCommand reports whether the outcome marks a command line.
func (o Outcome) IsCommand() bool { return o == OutcomeCommand }
