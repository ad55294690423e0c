package quiz

import "time"

// Phase is the lifecycle phase of a Machine.
type Phase int

const (
	PhaseSetup   Phase = iota // No active session
	PhaseSession              // Learner is working through items
	PhaseResults              // Result computed, session discarded
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseSession:
		return "session"
	case PhaseResults:
		return "results"
	}
	return "unknown"
}

// Mode tells how a session's items were chosen.
type Mode string

const (
	ModeQuiz   Mode = "quiz"   // freshly generated items
	ModeReview Mode = "review" // items due for spaced-repetition review
)

// State is the tagged union of lifecycle phases. Each variant carries only
// the fields valid in its phase.
type State interface {
	Phase() Phase
	isState()
}

// SetupState is the initial phase.
type SetupState struct {
	// Parked is a session the learner navigated away from without
	// abandoning it. GoToSession resumes it.
	Parked *Session

	// LastResults is the results phase the learner navigated back from.
	// GoToResults shows it again with its session metadata.
	LastResults *ResultsState
}

// ActiveState holds the running session.
type ActiveState struct {
	Session *Session
}

// ResultsState holds the completed session's result.
type ResultsState struct {
	SessionID string
	DeckID    string
	Mode      Mode
	StartedAt time.Time
	Result    *SessionResult
}

func (*SetupState) Phase() Phase   { return PhaseSetup }
func (*ActiveState) Phase() Phase  { return PhaseSession }
func (*ResultsState) Phase() Phase { return PhaseResults }

func (*SetupState) isState()   {}
func (*ActiveState) isState()  {}
func (*ResultsState) isState() {}

// cloneState returns a deep copy so readers can never mutate machine state.
func cloneState(s State) State {
	switch v := s.(type) {
	case *SetupState:
		return &SetupState{Parked: v.Parked.clone(), LastResults: v.LastResults.clone()}
	case *ActiveState:
		return &ActiveState{Session: v.Session.clone()}
	case *ResultsState:
		return v.clone()
	}
	return s
}

func (r *ResultsState) clone() *ResultsState {
	if r == nil {
		return nil
	}
	c := *r
	c.Result = r.Result.clone()
	return &c
}
