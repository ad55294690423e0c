package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydeck/internal/quiz"
	"github.com/abhisek/studydeck/internal/ui/components"
	"github.com/abhisek/studydeck/internal/ui/layout"
	"github.com/abhisek/studydeck/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	if s.runner == nil {
		if s.errMsg != "" {
			return renderError(width, s.errMsg)
		}
		return theme.Hint.Width(width).Align(lipgloss.Center).Render("\n\nNo active session.")
	}
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	item, idx, total, err := s.runner.Current()
	if err != nil {
		return renderError(width, err.Error())
	}

	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(s.renderStatusLine(idx, total, width))
	b.WriteString("\n")
	b.WriteString(layout.Centered(components.NewProgressBar("", idx, total, cw).View(), width))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered(s.renderCard(item, cw), width))
	b.WriteString("\n\n")

	if item.IsChoice() {
		b.WriteString(layout.Centered(lipgloss.NewStyle().Width(cw).Render(s.choices.View()), width))
		b.WriteString("\n")
	}

	if s.last != nil {
		b.WriteString("\n")
		b.WriteString(renderFeedback(*s.last, width))
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Width(width).Align(lipgloss.Center).Render(s.errMsg))
	}

	return lipgloss.NewStyle().MaxHeight(height).Render(b.String())
}

// renderStatusLine shows position, correct count and the clock.
func (s *SessionScreen) renderStatusLine(idx, total, width int) string {
	correct := 0
	for _, o := range s.runner.Outcomes() {
		if o.IsCorrect {
			correct++
		}
	}

	left := theme.Subtitle.Render(fmt.Sprintf("  Card %d/%d", idx+1, total))

	clock := layout.FormatDuration(s.runner.Elapsed().Milliseconds())
	if s.timeLimit > 0 {
		remaining := s.timeLimit - s.runner.Elapsed()
		clock = layout.FormatDuration(remaining.Milliseconds()) + " left"
	}
	right := theme.Hint.Render(fmt.Sprintf("%s %d  %s  ",
		theme.Correct.Render("✓"), correct, clock))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (s *SessionScreen) renderCard(item quiz.StudyItem, width int) string {
	revealed := s.runner.Revealed()
	body := theme.Prompt.Render(item.Prompt)
	if revealed && !item.IsChoice() {
		body += "\n\n" + theme.Answer.Render(item.Answer)
	} else if !item.IsChoice() {
		body += "\n\n" + theme.Hint.Render("Recall the answer, then press Space.")
	}
	if item.Difficulty != "" {
		body += "\n" + theme.Hint.Render(string(item.Difficulty))
	}
	return components.Card(body, width, revealed)
}

// renderFeedback summarises the previous item's outcome.
func renderFeedback(o quiz.ItemOutcome, width int) string {
	style := theme.Incorrect
	msg := "Missed"
	if o.IsCorrect {
		style = theme.Correct
		msg = "Correct"
	}
	if o.Response != "" && !o.IsCorrect {
		msg += fmt.Sprintf(": the answer was %q", o.Item.Answer)
	}
	return style.Width(width).Align(lipgloss.Center).Render(msg)
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(width).Render("End this session?"))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).Render("Answers so far are discarded and no result is recorded."))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(width).Align(lipgloss.Center).Render("[Y] End    [N] Keep going"))
	return b.String()
}

func renderError(width int, msg string) string {
	return "\n\n" + theme.ErrorText.Width(width).Align(lipgloss.Center).Render(msg)
}
