package installer

// State is a step of an install run.
type State int

const (
	StateStart State = iota
	StateDirResolved
	StateDesiredParsed
	StateInstalledParsed
	StateAlreadyInstalled
	StateNeedsInstall
	StateExtracted
	StateMarkerWritten
	StateDone
	StateAborted
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateDirResolved:
		return "dir-resolved"
	case StateDesiredParsed:
		return "desired-parsed"
	case StateInstalledParsed:
		return "installed-parsed"
	case StateAlreadyInstalled:
		return "already-installed"
	case StateNeedsInstall:
		return "needs-install"
	case StateExtracted:
		return "extracted"
	case StateMarkerWritten:
		return "marker-written"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Outcome is the result of a run.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeAlreadyInstalled
	OutcomeInstalled
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeAlreadyInstalled:
		return "already-installed"
	case OutcomeInstalled:
		return "installed"
	default:
		return "failed"
	}
}
