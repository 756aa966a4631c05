package domain

// SessionState tracks where a breakout run currently is.
// Transitions are linear: Idle → Provisioning → Discussing → Writing →
// Returning → Idle, with Writing skipped when no writing time is requested.
type SessionState int

const (
	StateIdle SessionState = iota
	StateProvisioning
	StateDiscussing
	StateWriting
	StateReturning
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProvisioning:
		return "provisioning"
	case StateDiscussing:
		return "discussing"
	case StateWriting:
		return "writing"
	case StateReturning:
		return "returning"
	default:
		return "unknown"
	}
}
