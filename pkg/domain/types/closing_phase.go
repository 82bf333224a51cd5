package types

// ClosingPhase represents the state of a period closing workflow session
type ClosingPhase string

const (
	ClosingPhaseVerifying  ClosingPhase = "VERIFYING"
	ClosingPhaseBlocked    ClosingPhase = "BLOCKED"
	ClosingPhaseConfirming ClosingPhase = "CONFIRMING"
	ClosingPhaseArchiving  ClosingPhase = "ARCHIVING"
	ClosingPhaseClosed     ClosingPhase = "CLOSED"
)

// IsValid checks if the closing phase is valid
func (p ClosingPhase) IsValid() bool {
	switch p {
	case ClosingPhaseVerifying,
		ClosingPhaseBlocked,
		ClosingPhaseConfirming,
		ClosingPhaseArchiving,
		ClosingPhaseClosed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the closing phase
func (p ClosingPhase) String() string {
	return string(p)
}
