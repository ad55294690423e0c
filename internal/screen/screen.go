package screen

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydeck/internal/quiz"
	"github.com/abhisek/studydeck/internal/store"
	"github.com/abhisek/studydeck/internal/ui/layout"
)

// Screen is the view of one lifecycle phase.
type Screen interface {
	// Enter is called each time the machine moves into the screen's phase.
	Enter() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Deps are the services shared by all screens.
type Deps struct {
	Machine *quiz.Machine
	DeckID  string

	// Config is the starting session config. The setup screen may change
	// the count before each start.
	Config quiz.SessionConfig

	// ReviewSize is the batch size for review sessions. Zero hides review.
	ReviewSize int

	// Sink receives outcomes after each session. Nil skips submission.
	Sink quiz.AnswerSink

	// History records completed sessions locally. Nil skips recording.
	History store.HistoryRepo

	// Timeout bounds generation and submission requests.
	Timeout time.Duration

	Now func() time.Time
}

// StartMsg asks the setup screen to start a new session with its current
// settings.
type StartMsg struct {
	Review bool
}

// StartedMsg reports the end of a StartQuiz or StartReview call. ID ties
// it to the start request that produced it.
type StartedMsg struct {
	ID  int
	Err error
}
