package quiz

import (
	"strings"
	"time"
)

// Runner steps one session through its items. It times each item from the
// moment it becomes current, records one outcome per item, and hands the
// aggregated result to the Machine after the last item.
//
// All state changes go through the Machine; the Runner only keeps the
// outcomes recorded so far.
type Runner struct {
	m         *Machine
	sessionID string
	now       func() time.Time
	startedAt time.Time
	itemStart time.Time
	outcomes  []ItemOutcome
	result    *SessionResult
}

// NewRunner binds a Runner to the machine's active session.
func NewRunner(m *Machine) (*Runner, error) {
	s, ok := m.Session()
	if !ok {
		return nil, &StateViolation{Action: "NewRunner", Phase: m.Phase()}
	}
	now := m.now()
	return &Runner{
		m:         m,
		sessionID: s.ID,
		now:       m.now,
		startedAt: now,
		itemStart: now,
		outcomes:  make([]ItemOutcome, 0, len(s.Items)),
	}, nil
}

// SessionID returns the ID of the session this runner drives.
func (r *Runner) SessionID() string { return r.sessionID }

// Current returns the current item and its 0-based position.
func (r *Runner) Current() (item StudyItem, index, total int, err error) {
	s, err := r.session("Current")
	if err != nil {
		return StudyItem{}, 0, 0, err
	}
	return s.Current(), s.CurrentIndex, len(s.Items), nil
}

// Revealed reports whether the current answer is visible.
func (r *Runner) Revealed() bool {
	s, err := r.session("Revealed")
	return err == nil && s.Revealed
}

// Reveal flips answer visibility. It never moves to another item.
func (r *Runner) Reveal() error {
	return r.m.reveal(r.sessionID)
}

// Grade records a self-assessed recall outcome for the current item. The
// answer must have been revealed. It returns the result once the last item
// is graded.
func (r *Runner) Grade(correct bool) (*SessionResult, error) {
	s, err := r.session("Grade")
	if err != nil {
		return nil, err
	}
	if !s.Revealed {
		return nil, &StateViolation{Action: "Grade", Phase: PhaseSession, Reason: "answer not revealed"}
	}
	return r.record(s.Current(), "", correct)
}

// Choose answers a structured-choice item. Correctness is equality with
// the known answer, ignoring case and surrounding space. The answer is
// revealed as part of choosing.
func (r *Runner) Choose(response string) (bool, *SessionResult, error) {
	s, err := r.session("Choose")
	if err != nil {
		return false, nil, err
	}
	item := s.Current()
	if !s.Revealed {
		if err := r.m.reveal(r.sessionID); err != nil {
			return false, nil, err
		}
	}
	correct := MatchAnswer(response, item.Answer)
	res, err := r.record(item, response, correct)
	return correct, res, err
}

// MatchAnswer compares a chosen response with the expected answer.
func MatchAnswer(response, answer string) bool {
	return strings.EqualFold(strings.TrimSpace(response), strings.TrimSpace(answer))
}

func (r *Runner) record(item StudyItem, response string, correct bool) (*SessionResult, error) {
	now := r.now()
	outcome := ItemOutcome{
		Item:        item,
		Response:    response,
		Revealed:    true,
		IsCorrect:   correct,
		TimeTakenMs: now.Sub(r.itemStart).Milliseconds(),
	}

	done, err := r.m.advance(r.sessionID)
	if err != nil {
		return nil, err
	}
	if done {
		return r.complete(append(r.Outcomes(), outcome))
	}
	r.outcomes = append(r.outcomes, outcome)
	r.itemStart = now
	return nil, nil
}

// Expire ends the session early, e.g. when the caller's time limit runs
// out. The current and all remaining items are recorded as incorrect so
// the result still covers every item.
func (r *Runner) Expire() (*SessionResult, error) {
	s, err := r.session("Expire")
	if err != nil {
		return nil, err
	}
	now := r.now()
	outcomes := r.Outcomes()
	for i := s.CurrentIndex; i < len(s.Items); i++ {
		o := ItemOutcome{Item: s.Items[i], Revealed: i == s.CurrentIndex && s.Revealed}
		if i == s.CurrentIndex {
			o.TimeTakenMs = now.Sub(r.itemStart).Milliseconds()
		}
		outcomes = append(outcomes, o)
	}
	return r.complete(outcomes)
}

// Abandon exits the session without a result.
func (r *Runner) Abandon() {
	r.m.ExitQuiz()
}

// complete hands the final outcomes to the machine. The runner keeps them
// only once the machine has accepted the result.
func (r *Runner) complete(outcomes []ItemOutcome) (*SessionResult, error) {
	res := Aggregate(outcomes)
	if err := r.m.CompleteQuiz(res); err != nil {
		return nil, err
	}
	r.outcomes = outcomes
	r.result = &res
	return &res, nil
}

// Outcomes returns the outcomes recorded so far, in presentation order.
func (r *Runner) Outcomes() []ItemOutcome {
	return append([]ItemOutcome(nil), r.outcomes...)
}

// Elapsed is the wall time since the runner started.
func (r *Runner) Elapsed() time.Duration {
	return r.now().Sub(r.startedAt)
}

// TimeLimitReached reports whether the session's configured limit has passed.
func (r *Runner) TimeLimitReached(limit time.Duration) bool {
	return limit > 0 && r.Elapsed() >= limit
}

func (r *Runner) session(action string) (*Session, error) {
	s, ok := r.m.Session()
	if !ok {
		return nil, &StateViolation{Action: action, Phase: r.m.Phase()}
	}
	if s.ID != r.sessionID {
		return nil, &StateViolation{Action: action, Phase: PhaseSession, Reason: "session " + r.sessionID + " is no longer active"}
	}
	return s, nil
}
