package flow

// State is the position of a Flow. Exactly one is active at a time.
type State int

const (
	StateLoading State = iota
	StateNeedsShortfallReview
	StateNeedsUserContext
	StateTerminalSuccess
	StateTerminalError
)

// String returns the state name used in responses and logs.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateNeedsShortfallReview:
		return "needsShortfallReview"
	case StateNeedsUserContext:
		return "needsUserContext"
	case StateTerminalSuccess:
		return "terminalSuccess"
	case StateTerminalError:
		return "terminalError"
	default:
		return "unknown"
	}
}

// Terminal reports whether s absorbs every further transition.
func (s State) Terminal() bool {
	return s == StateTerminalSuccess || s == StateTerminalError
}
