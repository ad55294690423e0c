package results

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydeck/internal/quiz"
	"github.com/abhisek/studydeck/internal/screen"
	"github.com/abhisek/studydeck/internal/store"
	"github.com/abhisek/studydeck/internal/ui/components"
	"github.com/abhisek/studydeck/internal/ui/layout"
	"github.com/abhisek/studydeck/internal/ui/theme"
)

// persistedMsg reports the end of saving and submitting one result.
type persistedMsg struct {
	SessionID string
	SaveErr   error
	SubmitErr error
	Submitted bool
}

// ResultsScreen shows a completed session's result. The first time a
// result is shown it is recorded in local history and its outcomes are
// submitted to the answer sink.
type ResultsScreen struct {
	deps  screen.Deps
	state *quiz.ResultsState

	persisted   map[string]persistedMsg
	persisting  string
	quitPending bool
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates the results screen.
func New(deps screen.Deps) *ResultsScreen {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &ResultsScreen{deps: deps, persisted: make(map[string]persistedMsg)}
}

func (s *ResultsScreen) Enter() tea.Cmd {
	st, ok := s.deps.Machine.State().(*quiz.ResultsState)
	if !ok {
		return nil
	}
	s.state = st
	s.quitPending = false

	id := st.SessionID
	if id == "" || s.persisting == id {
		return nil
	}
	if _, done := s.persisted[id]; done {
		return nil
	}
	s.persisting = id
	return s.persist(*st)
}

// persist saves the session and then submits its outcomes.
func (s *ResultsScreen) persist(st quiz.ResultsState) tea.Cmd {
	deps := s.deps
	rec := sessionRecord(st, deps.Now())
	return func() tea.Msg {
		msg := persistedMsg{SessionID: st.SessionID}

		ctx := context.Background()
		if deps.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, deps.Timeout)
			defer cancel()
		}

		if deps.History != nil {
			msg.SaveErr = deps.History.RecordSession(ctx, rec)
		}
		if deps.Sink == nil {
			return msg
		}
		msg.SubmitErr = quiz.SubmitOutcomes(ctx, deps.Sink, st.DeckID, st.SessionID, *st.Result)
		msg.Submitted = msg.SubmitErr == nil
		if deps.History != nil && msg.SaveErr == nil {
			errText := ""
			if msg.SubmitErr != nil {
				errText = msg.SubmitErr.Error()
			}
			if err := deps.History.MarkSubmitted(context.WithoutCancel(ctx), st.SessionID, errText); err != nil {
				msg.SaveErr = err
			}
		}
		return msg
	}
}

func sessionRecord(st quiz.ResultsState, completedAt time.Time) store.SessionRecord {
	res := st.Result
	rec := store.SessionRecord{
		ID:          st.SessionID,
		DeckID:      st.DeckID,
		Mode:        string(st.Mode),
		StartedAt:   st.StartedAt,
		CompletedAt: completedAt,
		Total:       res.TotalQuestions,
		Correct:     res.CorrectAnswers,
		Incorrect:   res.IncorrectAnswers,
		Score:       res.Score,
		TimeTakenMs: res.TimeTakenMs,
		Outcomes:    make([]store.OutcomeRecord, len(res.Results)),
	}
	for i, o := range res.Results {
		rec.Outcomes[i] = store.OutcomeRecord{
			Position:    i,
			ItemID:      o.Item.ID,
			Prompt:      o.Item.Prompt,
			Answer:      o.Item.Answer,
			Response:    o.Response,
			IsCorrect:   o.IsCorrect,
			TimeTakenMs: o.TimeTakenMs,
		}
	}
	return rec
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "R", Description: "Study again"},
		{Key: "S", Description: "Setup"},
		{Key: "Enter", Description: "Done"},
		{Key: "Q", Description: "Quit"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case persistedMsg:
		s.persisted[msg.SessionID] = msg
		if s.persisting == msg.SessionID {
			s.persisting = ""
		}
		if s.quitPending {
			return s, tea.Quit
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter", "esc":
			s.deps.Machine.ExitQuiz()
		case "s":
			s.deps.Machine.GoToSetup()
		case "r":
			s.deps.Machine.ExitQuiz()
			review := s.state != nil && s.state.Mode == quiz.ModeReview
			return s, func() tea.Msg { return screen.StartMsg{Review: review} }
		case "q":
			if s.persisting != "" {
				s.quitPending = true
				return s, nil
			}
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	if s.state == nil || s.state.Result == nil {
		return ""
	}
	res := s.state.Result
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Width(width).Render("Session complete!"))
	b.WriteString("\n\n")

	scoreStyle := theme.Correct
	if res.Score < 50 {
		scoreStyle = theme.Incorrect
	}
	b.WriteString(scoreStyle.Width(width).Align(lipgloss.Center).Render(fmt.Sprintf("%d%%", res.Score)))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Align(lipgloss.Center).Render(fmt.Sprintf(
		"%d correct  %d missed  of %d  in %s",
		res.CorrectAnswers, res.IncorrectAnswers, res.TotalQuestions, layout.FormatDuration(res.TimeTakenMs))))
	b.WriteString("\n")
	if s.state.Mode != "" {
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).Render(string(s.state.Mode) + " · " + s.state.DeckID))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	var list strings.Builder
	for i, o := range res.Results {
		mark := theme.Correct.Render("✓")
		if !o.IsCorrect {
			mark = theme.Incorrect.Render("✗")
		}
		line := fmt.Sprintf("%s %2d. %s", mark, i+1, truncate(o.Item.Prompt, cw-12))
		list.WriteString(line)
		list.WriteString(theme.Hint.Render("  " + layout.FormatDuration(o.TimeTakenMs)))
		list.WriteString("\n")
	}
	b.WriteString(layout.Centered(components.Card(strings.TrimRight(list.String(), "\n"), cw, false), width))
	b.WriteString("\n\n")

	if status := s.status(); status != "" {
		b.WriteString(status)
	}

	return lipgloss.NewStyle().MaxHeight(height).Render(b.String())
}

// status describes where persistence of the shown result stands.
func (s *ResultsScreen) status() string {
	id := s.state.SessionID
	if id == "" {
		return ""
	}
	if s.persisting == id {
		return theme.Hint.Render("  Saving results...")
	}
	msg, ok := s.persisted[id]
	if !ok {
		return ""
	}
	switch {
	case msg.SaveErr != nil:
		return theme.ErrorText.Render("  Could not save history: " + msg.SaveErr.Error())
	case msg.SubmitErr != nil:
		return theme.ErrorText.Render("  Some answers were not submitted: " + msg.SubmitErr.Error())
	case msg.Submitted:
		return theme.Hint.Render("  Answers submitted.")
	}
	return theme.Hint.Render("  Saved.")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
