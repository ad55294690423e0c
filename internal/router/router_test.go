package router

import (
	"context"
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydeck/internal/quiz"
	"github.com/abhisek/studydeck/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	entered int
	msgs    []tea.Msg
	onMsg   func()
}

func (s *stubScreen) Enter() tea.Cmd {
	s.entered++
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.msgs = append(s.msgs, msg)
	if s.onMsg != nil {
		s.onMsg()
	}
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

type staticSource struct{ n int }

func (s staticSource) GenerateItems(context.Context, string, quiz.GenerateOptions) ([]quiz.StudyItem, error) {
	items := make([]quiz.StudyItem, s.n)
	for i := range items {
		items[i] = quiz.StudyItem{ID: fmt.Sprint(i), Prompt: "p", Answer: "a"}
	}
	return items, nil
}

type pingMsg struct{}

func newTestRouter() (*Router, *quiz.Machine, [3]*stubScreen) {
	m := quiz.NewMachine(staticSource{n: 2})
	screens := [3]*stubScreen{{title: "setup"}, {title: "session"}, {title: "results"}}
	return New(m, screens[0], screens[1], screens[2]), m, screens
}

func TestInitEntersStartingPhase(t *testing.T) {
	r, _, screens := newTestRouter()
	r.Init()

	if screens[0].entered != 1 {
		t.Errorf("setup entered %d times, want 1", screens[0].entered)
	}
	if r.Active().Title() != "setup" {
		t.Errorf("active = %q, want setup", r.Active().Title())
	}
}

func TestFollowsMachinePhase(t *testing.T) {
	r, m, screens := newTestRouter()

	screens[0].onMsg = func() {
		if err := m.StartQuiz(context.Background(), "doc", quiz.SessionConfig{Count: quiz.Limit(2)}); err != nil {
			t.Fatalf("start: %v", err)
		}
	}
	r.Update(pingMsg{})

	if r.Phase() != quiz.PhaseSession {
		t.Fatalf("phase = %v, want session", r.Phase())
	}
	if screens[1].entered != 1 {
		t.Errorf("session entered %d times, want 1", screens[1].entered)
	}

	// The next message goes to the new screen only.
	r.Update(pingMsg{})
	if len(screens[0].msgs) != 1 || len(screens[1].msgs) != 1 {
		t.Errorf("setup got %d msgs, session got %d", len(screens[0].msgs), len(screens[1].msgs))
	}
}

func TestSyncNoopWithoutPhaseChange(t *testing.T) {
	r, _, screens := newTestRouter()
	if cmd := r.Sync(); cmd != nil {
		t.Error("expected nil command")
	}
	if screens[0].entered != 0 {
		t.Error("setup should not be re-entered")
	}
}

func TestSyncAfterOutsideChange(t *testing.T) {
	r, m, screens := newTestRouter()
	if err := m.StartQuiz(context.Background(), "doc", quiz.SessionConfig{Count: quiz.Limit(1)}); err != nil {
		t.Fatalf("start: %v", err)
	}
	m.GoToSetup()
	r.Sync()
	if screens[1].entered != 0 {
		t.Error("session should not be entered when the machine is back in setup")
	}

	m.GoToSession()
	r.Sync()
	if r.View(80, 24) != "session" || screens[1].entered != 1 {
		t.Errorf("view = %q, entered = %d", r.View(80, 24), screens[1].entered)
	}
}
