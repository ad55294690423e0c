package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydeck/internal/quiz"
	"github.com/abhisek/studydeck/internal/screen"
)

// Router shows the screen of the machine's current phase. Screens never
// switch themselves; they act on the machine and the router follows.
type Router struct {
	machine *quiz.Machine
	screens map[quiz.Phase]screen.Screen
	active  quiz.Phase
}

// New creates a Router. Every phase needs a screen.
func New(m *quiz.Machine, setup, session, results screen.Screen) *Router {
	return &Router{
		machine: m,
		screens: map[quiz.Phase]screen.Screen{
			quiz.PhaseSetup:   setup,
			quiz.PhaseSession: session,
			quiz.PhaseResults: results,
		},
		active: m.Phase(),
	}
}

// Init enters the screen of the starting phase.
func (r *Router) Init() tea.Cmd {
	return r.Active().Enter()
}

// Active returns the screen of the phase last observed.
func (r *Router) Active() screen.Screen {
	return r.screens[r.active]
}

// Phase returns the phase last observed.
func (r *Router) Phase() quiz.Phase {
	return r.active
}

// Update forwards a message to the active screen, then enters the screen of
// the new phase if the machine moved.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	updated, cmd := r.Active().Update(msg)
	r.screens[r.active] = updated

	if enter := r.Sync(); enter != nil {
		return tea.Batch(cmd, enter)
	}
	return cmd
}

// Sync switches to the machine's current phase, returning the entered
// screen's command. It is a no-op while the phase is unchanged.
func (r *Router) Sync() tea.Cmd {
	phase := r.machine.Phase()
	if phase == r.active {
		return nil
	}
	r.active = phase
	return r.Active().Enter()
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
