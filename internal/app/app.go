package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydeck/internal/quiz"
	"github.com/abhisek/studydeck/internal/router"
	"github.com/abhisek/studydeck/internal/screen"
	"github.com/abhisek/studydeck/internal/screens/results"
	"github.com/abhisek/studydeck/internal/screens/session"
	"github.com/abhisek/studydeck/internal/screens/setup"
	"github.com/abhisek/studydeck/internal/ui/layout"
)

// Options control how the program starts.
type Options struct {
	// AutoStart starts a session immediately instead of showing setup.
	AutoStart bool

	// Review makes AutoStart begin a review session.
	Review bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	deps   screen.Deps
	opts   Options
	width  int
	height int
}

// newAppModel wires one screen per lifecycle phase.
func newAppModel(deps screen.Deps, opts Options) AppModel {
	return AppModel{
		router: router.New(deps.Machine,
			setup.New(deps),
			session.New(deps),
			results.New(deps),
		),
		deps: deps,
		opts: opts,
	}
}

func (m AppModel) Init() tea.Cmd {
	cmd := m.router.Init()
	if m.opts.AutoStart && m.router.Phase() == quiz.PhaseSetup {
		review := m.opts.Review
		return tea.Batch(cmd, func() tea.Msg { return screen.StartMsg{Review: review} })
	}
	return cmd
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render composes header, active screen and footer for the current size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.deps.DeckID, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(deps screen.Deps, opts Options) error {
	p := tea.NewProgram(newAppModel(deps, opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
