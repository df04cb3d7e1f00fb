package sweep

// State of a single configuration:
//
//	Pending -> Attempting -> Succeeded
//	           Attempting -> Retrying -> Attempting
//	           Attempting -> Failed
//	Pending -> Skipped (no attempts configured)
type State int

const (
	Pending State = iota
	Attempting
	Retrying
	Succeeded
	Failed
	Skipped
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Attempting:
		return "attempting"
	case Retrying:
		return "retrying"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

func (s State) Terminal() bool {
	return s == Succeeded || s == Failed || s == Skipped
}

// Next is the transition taken after state has run. attempt is the number of
// attempts made so far and err the outcome of the latest one.
func Next(state State, attempt, maxAttempts int, err error) State {
	switch state {
	case Pending:
		if maxAttempts <= 0 {
			return Skipped
		}
		return Attempting
	case Attempting:
		if err == nil {
			return Succeeded
		}
		if attempt < maxAttempts {
			return Retrying
		}
		return Failed
	case Retrying:
		return Attempting
	default:
		return state
	}
}
