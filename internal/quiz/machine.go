package quiz

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ItemSource generates study items for a document.
type ItemSource interface {
	GenerateItems(ctx context.Context, docID string, opts GenerateOptions) ([]StudyItem, error)
}

// ReviewSource returns a bounded batch of items due for review.
type ReviewSource interface {
	ReviewBatch(ctx context.Context, docID string, sessionSize int) ([]StudyItem, error)
}

// Machine owns the setup → session → results lifecycle. It is the only
// mutator of Session and SessionResult; readers get copies.
//
// Every action runs to completion before the next one is accepted. The
// item source call in StartQuiz/StartReview is the only point where the
// lock is released.
type Machine struct {
	mu         sync.Mutex
	state      State
	err        error
	generating bool

	// epoch increments on every reset so an in-flight request can tell
	// that its result is stale.
	epoch uint64

	items   ItemSource
	reviews ReviewSource
	rng     *rand.Rand
	now     func() time.Time
	newID   func() string
}

// Option configures a Machine.
type Option func(*Machine)

// WithRand sets the random source used to shuffle items.
func WithRand(r *rand.Rand) Option {
	return func(m *Machine) { m.rng = r }
}

// WithClock sets the time source for session start and item timing.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithIDFunc sets the session ID generator.
func WithIDFunc(f func() string) Option {
	return func(m *Machine) { m.newID = f }
}

// WithReviewSource enables StartReview.
func WithReviewSource(r ReviewSource) Option {
	return func(m *Machine) { m.reviews = r }
}

// NewMachine creates a Machine in the setup phase.
func NewMachine(items ItemSource, opts ...Option) *Machine {
	m := &Machine{
		state: &SetupState{},
		items: items,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:   time.Now,
		newID: newSessionID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// newSessionID returns a time-ordered UUID so IDs sort by creation.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// State returns a copy of the current state variant.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneState(m.state)
}

// Phase returns the current lifecycle phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Phase()
}

// Err returns the last visible error, or nil.
func (m *Machine) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Generating reports whether a start request is in flight.
func (m *Machine) Generating() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generating
}

// Session returns a copy of the active session.
func (m *Machine) Session() (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.state.(*ActiveState); ok {
		return a.Session.clone(), true
	}
	return nil, false
}

// Result returns a copy of the completed session's result.
func (m *Machine) Result() (*SessionResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.state.(*ResultsState); ok {
		return r.Result.clone(), true
	}
	return nil, false
}

// StartQuiz generates items for deckID and starts a session over a
// shuffled, truncated copy of them. On any failure the state stays in
// setup and the error is stored and returned.
func (m *Machine) StartQuiz(ctx context.Context, deckID string, cfg SessionConfig) error {
	epoch, err := m.beginStart("StartQuiz", func() error { return cfg.Validate() })
	if err != nil {
		return err
	}

	var bloom *BloomDistribution
	if cfg.Bloom != nil {
		b := *cfg.Bloom
		bloom = &b
	}
	items, err := m.items.GenerateItems(ctx, deckID, GenerateOptions{
		Count:      cfg.Count.RequestSize(),
		Difficulty: cfg.Difficulty,
		BloomLevel: bloom,
	})
	return m.finishStart(epoch, deckID, ModeQuiz, cfg, items, err)
}

// StartReview starts a session over the source's review batch for deckID.
func (m *Machine) StartReview(ctx context.Context, deckID string, size int) error {
	cfg := SessionConfig{Count: Limit(size)}
	epoch, err := m.beginStart("StartReview", func() error {
		if m.reviews == nil {
			return &StateViolation{Action: "StartReview", Phase: PhaseSetup, Reason: "no review source configured"}
		}
		return cfg.Validate()
	})
	if err != nil {
		return err
	}

	items, err := m.reviews.ReviewBatch(ctx, deckID, size)
	return m.finishStart(epoch, deckID, ModeReview, cfg, items, err)
}

// beginStart checks the phase, clears the visible error and marks the
// machine as generating. Validation failures are stored as the visible
// error; state violations are only returned.
func (m *Machine) beginStart(action string, validate func() error) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generating {
		return 0, &StateViolation{Action: action, Phase: m.state.Phase(), Reason: "generation already in progress"}
	}
	if _, ok := m.state.(*SetupState); !ok {
		return 0, &StateViolation{Action: action, Phase: m.state.Phase()}
	}

	m.err = nil
	if err := validate(); err != nil {
		var sv *StateViolation
		if !errors.As(err, &sv) {
			m.err = err
		}
		return 0, err
	}
	m.generating = true
	return m.epoch, nil
}

func (m *Machine) finishStart(epoch uint64, deckID string, mode Mode, cfg SessionConfig, items []StudyItem, err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if epoch != m.epoch {
		return ErrSuperseded
	}
	m.generating = false

	if err != nil {
		var ge *GenerationError
		if !errors.As(err, &ge) {
			err = &GenerationError{DocID: deckID, Err: err}
		}
		m.err = err
		return err
	}
	if len(items) == 0 {
		err := &GenerationError{DocID: deckID, Err: &NoContentError{DocID: deckID}}
		m.err = err
		return err
	}

	deck := cfg.Count.apply(shuffle(m.rng, items))
	m.state = &ActiveState{Session: &Session{
		ID:        m.newID(),
		DeckID:    deckID,
		Mode:      mode,
		Items:     deck,
		StartedAt: m.now(),
		Config:    cfg,
	}}
	m.err = nil
	return nil
}

// CompleteQuiz records the runner's result and moves to results.
func (m *Machine) CompleteQuiz(result SessionResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.state.(*ActiveState)
	if !ok {
		return &StateViolation{Action: "CompleteQuiz", Phase: m.state.Phase()}
	}
	m.err = nil
	m.state = &ResultsState{
		SessionID: a.Session.ID,
		DeckID:    a.Session.DeckID,
		Mode:      a.Session.Mode,
		StartedAt: a.Session.StartedAt,
		Result:    result.clone(),
	}
	return nil
}

// ExitQuiz abandons the session (or leaves results) and returns to a clean
// setup phase. No result is produced for an abandoned session.
func (m *Machine) ExitQuiz() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase() == PhaseSetup {
		return
	}
	m.err = nil
	m.state = &SetupState{}
}

// ResetQuiz returns to the initial state from any phase. A request still in
// flight is discarded when it returns.
func (m *Machine) ResetQuiz() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.epoch++
	m.generating = false
	m.err = nil
	m.state = &SetupState{}
}

// GoToSetup navigates back to setup, keeping the session or result so the
// learner can return to it.
func (m *Machine) GoToSetup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch v := m.state.(type) {
	case *ActiveState:
		m.state = &SetupState{Parked: v.Session}
	case *ResultsState:
		m.state = &SetupState{LastResults: v}
	}
}

// GoToSession resumes a parked session. No-op without one.
func (m *Machine) GoToSession() {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.state.(*SetupState)
	if !ok || m.generating || s.Parked == nil || len(s.Parked.Items) == 0 {
		return
	}
	m.state = &ActiveState{Session: s.Parked}
}

// GoToResults shows the last result again. No-op without one.
func (m *Machine) GoToResults() {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.state.(*SetupState)
	if !ok || m.generating || s.LastResults == nil {
		return
	}
	m.state = s.LastResults
}

// ClearError clears the visible error and nothing else.
func (m *Machine) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = nil
}

// reveal flips answer visibility for the current item.
func (m *Machine) reveal(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.activeSession("Reveal", sessionID)
	if err != nil {
		return err
	}
	s.Revealed = !s.Revealed
	return nil
}

// advance moves past the revealed current item. It reports done when the
// current item was the last; the index then stays put until completion.
func (m *Machine) advance(sessionID string) (done bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.activeSession("Advance", sessionID)
	if err != nil {
		return false, err
	}
	if !s.Revealed {
		return false, &StateViolation{Action: "Advance", Phase: PhaseSession, Reason: "answer not revealed"}
	}
	if s.CurrentIndex+1 >= len(s.Items) {
		return true, nil
	}
	s.CurrentIndex++
	s.Revealed = false
	return false, nil
}

func (m *Machine) activeSession(action, sessionID string) (*Session, error) {
	a, ok := m.state.(*ActiveState)
	if !ok {
		return nil, &StateViolation{Action: action, Phase: m.state.Phase()}
	}
	if a.Session.ID != sessionID {
		return nil, &StateViolation{Action: action, Phase: PhaseSession, Reason: "session " + sessionID + " is no longer active"}
	}
	return a.Session, nil
}
