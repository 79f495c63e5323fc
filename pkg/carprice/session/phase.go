package session

// Phase is the lifecycle position of a form submission.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSuccess    Phase = "success"
	PhaseFailed     Phase = "failed"
)

var validTransitions = map[Phase][]Phase{
	PhaseIdle:       {PhaseSubmitting},
	PhaseSubmitting: {PhaseSuccess, PhaseFailed},
	PhaseSuccess:    {PhaseSubmitting, PhaseIdle},
	PhaseFailed:     {PhaseSubmitting, PhaseIdle},
}

// IsTransitionAllowed reports whether a session may move from one phase to another.
func IsTransitionAllowed(from, to Phase) bool {
	for _, p := range validTransitions[from] {
		if p == to {
			return true
		}
	}
	return false
}
