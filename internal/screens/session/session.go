package session

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydeck/internal/quiz"
	"github.com/abhisek/studydeck/internal/screen"
	"github.com/abhisek/studydeck/internal/ui/components"
	"github.com/abhisek/studydeck/internal/ui/layout"
)

// SessionScreen presents the active session's items one at a time and
// records the learner's answers through a quiz.Runner.
type SessionScreen struct {
	deps   screen.Deps
	runner *quiz.Runner

	// choices is rebuilt whenever a structured-choice item becomes current.
	choices    components.Choices
	choicesFor string

	// last is the outcome of the previous item, shown as feedback.
	last *quiz.ItemOutcome

	confirmQuit bool
	timeLimit   time.Duration
	tickID      int
	errMsg      string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)

// New creates the session screen.
func New(deps screen.Deps) *SessionScreen {
	return &SessionScreen{deps: deps}
}

// Enter binds a runner to the machine's session. Resuming a parked session
// keeps the runner and the outcomes recorded so far.
func (s *SessionScreen) Enter() tea.Cmd {
	sess, ok := s.deps.Machine.Session()
	if !ok {
		return nil
	}
	if s.runner == nil || s.runner.SessionID() != sess.ID {
		r, err := quiz.NewRunner(s.deps.Machine)
		if err != nil {
			s.errMsg = err.Error()
			return nil
		}
		s.runner = r
		s.last = nil
	}
	s.confirmQuit = false
	s.errMsg = ""
	s.timeLimit = sess.Config.TimeLimit
	s.syncChoices()

	s.tickID++
	if s.timeLimit > 0 {
		return tickCmd(s.tickID)
	}
	return nil
}

func tickCmd(id int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{id: id, at: t}
	})
}

func (s *SessionScreen) Title() string {
	return "Session"
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.runner == nil {
		return nil
	}
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	item, _, _, err := s.runner.Current()
	if err != nil {
		return nil
	}
	hints := []layout.KeyHint{}
	switch {
	case item.IsChoice():
		hints = append(hints,
			layout.KeyHint{Key: "1-9", Description: "Choose"},
			layout.KeyHint{Key: "↑↓ Enter", Description: "Select"},
		)
	case s.runner.Revealed():
		hints = append(hints,
			layout.KeyHint{Key: "Y", Description: "Got it"},
			layout.KeyHint{Key: "N", Description: "Missed it"},
			layout.KeyHint{Key: "Space", Description: "Hide"},
		)
	default:
		hints = append(hints, layout.KeyHint{Key: "Space", Description: "Reveal"})
	}
	return append(hints,
		layout.KeyHint{Key: "Tab", Description: "Pause"},
		layout.KeyHint{Key: "Esc", Description: "Quit"},
	)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s.handleTick(msg)
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) handleTick(msg tickMsg) (screen.Screen, tea.Cmd) {
	if msg.id != s.tickID || s.runner == nil || s.deps.Machine.Phase() != quiz.PhaseSession {
		return s, nil
	}
	if s.runner.TimeLimitReached(s.timeLimit) {
		if _, err := s.runner.Expire(); err != nil {
			s.errMsg = err.Error()
		}
		return s, nil
	}
	return s, tickCmd(s.tickID)
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.runner == nil {
		return s, nil
	}
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			s.runner.Abandon()
			s.runner = nil
			s.last = nil
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "tab":
		s.deps.Machine.GoToSetup()
		return s, nil
	}

	item, _, _, err := s.runner.Current()
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}

	if item.IsChoice() {
		var picked string
		var ok bool
		s.choices, picked, ok = s.choices.Update(msg)
		if ok {
			s.answer(item, func() (*quiz.SessionResult, error) {
				_, res, err := s.runner.Choose(picked)
				return res, err
			})
		}
		return s, nil
	}

	switch key {
	case "space", "enter":
		if err := s.runner.Reveal(); err != nil {
			s.errMsg = err.Error()
		}
	case "y", "Y":
		if s.runner.Revealed() {
			s.answer(item, func() (*quiz.SessionResult, error) { return s.runner.Grade(true) })
		}
	case "n", "N":
		if s.runner.Revealed() {
			s.answer(item, func() (*quiz.SessionResult, error) { return s.runner.Grade(false) })
		}
	}
	return s, nil
}

// answer records the current item through record and keeps its outcome
// for feedback. After the last item the machine is already in results.
func (s *SessionScreen) answer(item quiz.StudyItem, record func() (*quiz.SessionResult, error)) {
	res, err := record()
	if err != nil {
		s.errMsg = err.Error()
		return
	}
	s.errMsg = ""
	if outcomes := s.runner.Outcomes(); len(outcomes) > 0 {
		last := outcomes[len(outcomes)-1]
		if last.Item.ID == item.ID {
			s.last = &last
		}
	}
	if res != nil {
		s.runner = nil
		s.last = nil
		return
	}
	s.syncChoices()
}

func (s *SessionScreen) syncChoices() {
	if s.runner == nil {
		return
	}
	item, _, _, err := s.runner.Current()
	if err != nil || !item.IsChoice() {
		s.choicesFor = ""
		return
	}
	if s.choicesFor != item.ID {
		s.choices = components.NewChoices(item.Options)
		s.choicesFor = item.ID
	}
}
