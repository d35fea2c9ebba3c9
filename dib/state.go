package dib

// DecodeState is C10's externally visible tri-state (spec.md §3/§4.10).
type DecodeState int

const (
	StateSuccess DecodeState = iota
	StateContinue
	StateFail
)

func (s DecodeState) String() string {
	switch s {
	case StateSuccess:
		return "Success"
	case StateContinue:
		return "Continue"
	case StateFail:
		return "Fail"
	default:
		return "Unknown"
	}
}

// PauseIndicator is the cooperative-yield collaborator spec.md §5
// describes: consulted periodically by C6 (JBIG2) and C9 (mask
// recursion); when it reports true, the codec returns StateContinue and
// unwinds cleanly. A nil PauseIndicator means "never pause".
type PauseIndicator interface {
	NeedToPauseNow() bool
}

// NoPause never requests a pause.
type NoPause struct{}

func (NoPause) NeedToPauseNow() bool { return false }

func shouldPause(p PauseIndicator) bool {
	return p != nil && p.NeedToPauseNow()
}
