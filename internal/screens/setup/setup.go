package setup

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydeck/internal/quiz"
	"github.com/abhisek/studydeck/internal/screen"
	"github.com/abhisek/studydeck/internal/ui/components"
	"github.com/abhisek/studydeck/internal/ui/layout"
	"github.com/abhisek/studydeck/internal/ui/theme"
)

// SetupScreen lets the learner choose the session size and start, resume
// or revisit a session.
type SetupScreen struct {
	deps   screen.Deps
	cfg    quiz.SessionConfig
	count  components.TextInput
	menu   components.Menu
	cancel context.CancelFunc

	// startID identifies the start request in flight; starting is set
	// from start() until its StartedMsg arrives.
	startID  int
	starting bool

	// inputErr is a local validation error, shown until the next start.
	inputErr string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates the setup screen.
func New(deps screen.Deps) *SetupScreen {
	s := &SetupScreen{
		deps:  deps,
		cfg:   deps.Config,
		count: components.NewTextInput("10 or all", deps.Config.Count.String(), 4),
	}
	s.count.Accept = func(r rune) bool {
		return unicode.IsDigit(r) || strings.ContainsRune("alAL", r)
	}
	s.count.Blur()
	s.menu = components.NewMenu(s.menuItems())
	return s
}

func (s *SetupScreen) Enter() tea.Cmd {
	s.menu.SetItems(s.menuItems())
	return nil
}

func (s *SetupScreen) Title() string {
	return "Setup"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.busy() {
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
	}
	if s.count.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "Tab", Description: "Menu"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Tab", Description: "Edit count"},
		{Key: "Q", Description: "Quit"},
	}
}

func (s *SetupScreen) menuItems() []components.MenuItem {
	st, _ := s.deps.Machine.State().(*quiz.SetupState)
	parked := st != nil && st.Parked != nil
	last := st != nil && st.LastResults != nil

	items := []components.MenuItem{
		{Label: "Start quiz", Action: func() tea.Cmd { return s.start(false) }},
	}
	if s.deps.ReviewSize > 0 {
		items = append(items, components.MenuItem{
			Label:  "Start review",
			Action: func() tea.Cmd { return s.start(true) },
		})
	}
	items = append(items,
		components.MenuItem{
			Label:    "Resume session",
			Disabled: !parked,
			Action:   func() tea.Cmd { s.deps.Machine.GoToSession(); return nil },
		},
		components.MenuItem{
			Label:    "Last results",
			Disabled: !last,
			Action:   func() tea.Cmd { s.deps.Machine.GoToResults(); return nil },
		},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	)
	return items
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.StartMsg:
		return s, s.start(msg.Review)

	case screen.StartedMsg:
		if msg.ID != s.startID {
			return s, nil
		}
		s.starting = false
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
		s.menu.SetItems(s.menuItems())
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SetupScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.busy() {
		if key == "esc" {
			if s.cancel != nil {
				s.cancel()
				s.cancel = nil
			}
			s.starting = false
			s.startID++
			s.deps.Machine.ResetQuiz()
			s.menu.SetItems(s.menuItems())
		}
		return s, nil
	}

	if key == "tab" {
		if s.count.Focused() {
			s.count.Blur()
			return s, nil
		}
		return s, s.count.Focus()
	}

	if s.count.Focused() {
		switch key {
		case "enter":
			s.count.Blur()
			return s, s.start(false)
		case "esc":
			s.count.Blur()
			return s, nil
		}
		var cmd tea.Cmd
		s.count, cmd = s.count.Update(msg)
		return s, cmd
	}

	if key == "q" {
		return s, tea.Quit
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

// start validates the count field and runs StartQuiz or StartReview in a
// command. The machine changes phase when the call returns; the router
// follows.
func (s *SetupScreen) start(review bool) tea.Cmd {
	if s.busy() {
		return nil
	}
	s.inputErr = ""
	count, err := quiz.ParseCount(s.count.Value())
	if err != nil {
		s.inputErr = err.Error()
		return nil
	}
	cfg := s.cfg
	cfg.Count = count
	if cfg.Bloom != nil && !count.IsAll() && cfg.Bloom.Total() != count.N() {
		// A changed count invalidates the configured distribution.
		cfg.Bloom = nil
	}
	s.cfg = cfg

	var ctx context.Context
	if s.deps.Timeout > 0 {
		ctx, s.cancel = context.WithTimeout(context.Background(), s.deps.Timeout)
	} else {
		ctx, s.cancel = context.WithCancel(context.Background())
	}

	s.startID++
	s.starting = true
	id := s.startID

	m, deck := s.deps.Machine, s.deps.DeckID
	reviewSize := s.deps.ReviewSize
	return func() tea.Msg {
		var err error
		if review {
			err = m.StartReview(ctx, deck, reviewSize)
		} else {
			err = m.StartQuiz(ctx, deck, cfg)
		}
		return screen.StartedMsg{ID: id, Err: err}
	}
}

// busy reports whether a start is pending, including the window before
// the machine marks itself as generating.
func (s *SetupScreen) busy() bool {
	return s.starting || s.deps.Machine.Generating()
}

func (s *SetupScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(theme.Title.Width(width).Render("Study " + s.deps.DeckID))
	b.WriteString("\n\n")

	var settings strings.Builder
	fmt.Fprintf(&settings, "Cards:       %s\n", s.count.View())
	fmt.Fprintf(&settings, "Difficulty:  %s\n", difficultyLabel(s.cfg.Difficulty))
	if s.cfg.TimeLimit > 0 {
		fmt.Fprintf(&settings, "Time limit:  %s\n", layout.FormatDuration(s.cfg.TimeLimit.Milliseconds()))
	}
	if bl := s.cfg.Bloom; bl != nil {
		fmt.Fprintf(&settings, "Bloom:       %d/%d/%d/%d/%d/%d\n",
			bl.Remember, bl.Understand, bl.Apply, bl.Analyze, bl.Evaluate, bl.Create)
	}
	b.WriteString(layout.Centered(components.Card(strings.TrimRight(settings.String(), "\n"), cw, false), width))
	b.WriteString("\n\n")

	switch {
	case s.busy():
		b.WriteString(theme.Subtitle.Width(width).Render("Generating cards..."))
	default:
		b.WriteString(layout.Centered(lipgloss.NewStyle().Width(cw).Render(s.menu.View()), width))
	}

	if msg := s.errorText(); msg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Width(width).Align(lipgloss.Center).Render(msg))
	}
	return b.String()
}

// errorText returns what to show below the menu.
func (s *SetupScreen) errorText() string {
	if s.inputErr != "" {
		return s.inputErr
	}
	err := s.deps.Machine.Err()
	if err == nil {
		return ""
	}
	if quiz.IsNoContent(err) {
		return "No study items could be generated from " + s.deps.DeckID + ". Generate more content for it first."
	}
	return err.Error()
}

func difficultyLabel(d quiz.Difficulty) string {
	if d == quiz.DifficultyAny {
		return "any"
	}
	return string(d)
}
