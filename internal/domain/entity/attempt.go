package entity

type AttemptPhase string

const (
	PhaseIdle       AttemptPhase = "idle"
	PhaseAttempting AttemptPhase = "attempting"
	PhaseSucceeded  AttemptPhase = "succeeded"
	PhaseExhausted  AttemptPhase = "exhausted"
)

// AttemptState bounds the retries of a single request. It lives only as long
// as the request.
type AttemptState struct {
	Phase   AttemptPhase
	Attempt int
	Max     int
}

func NewAttemptState(max int) *AttemptState {
	if max < 1 {
		max = 1
	}
	return &AttemptState{Phase: PhaseIdle, Max: max}
}

// Next moves to the next attempt. It returns false once the budget is spent
// or a terminal phase was reached.
func (s *AttemptState) Next() bool {
	if s.Phase == PhaseSucceeded || s.Phase == PhaseExhausted {
		return false
	}
	if s.Attempt >= s.Max {
		s.Phase = PhaseExhausted
		return false
	}
	s.Attempt++
	s.Phase = PhaseAttempting
	return true
}

// Observe feeds the number of fields the current attempt filled.
func (s *AttemptState) Observe(filled int) {
	if filled > 0 {
		s.Phase = PhaseSucceeded
		return
	}
	if s.Attempt >= s.Max {
		s.Phase = PhaseExhausted
	}
}

func (s *AttemptState) Done() bool {
	return s.Phase == PhaseSucceeded || s.Phase == PhaseExhausted
}
