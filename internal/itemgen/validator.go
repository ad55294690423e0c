package itemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/studydeck/internal/quiz"
)

// maxPromptLen bounds prompts so a card fits on screen.
const maxPromptLen = 500

// RejectedItem is a generated card that failed validation.
type RejectedItem struct {
	Prompt string
	Reason string
}

func (r RejectedItem) String() string {
	return fmt.Sprintf("%q: %s", r.Prompt, r.Reason)
}

// checkItem returns why it cannot be studied, or "" when it is fine.
// seen holds the normalized prompts accepted so far.
func checkItem(it quiz.StudyItem, want quiz.Difficulty, seen map[string]bool) string {
	prompt := strings.TrimSpace(it.Prompt)
	switch {
	case prompt == "":
		return "prompt is empty"
	case strings.TrimSpace(it.Answer) == "":
		return "answer is empty"
	case len(prompt) > maxPromptLen:
		return fmt.Sprintf("prompt exceeds %d characters", maxPromptLen)
	case seen[strings.ToLower(prompt)]:
		return "duplicate prompt"
	}

	switch want {
	case quiz.DifficultyEasy, quiz.DifficultyMedium, quiz.DifficultyHard:
		if it.Difficulty != want {
			return fmt.Sprintf("difficulty %q, want %q", it.Difficulty, want)
		}
	}

	if it.IsChoice() {
		if len(it.Options) < 2 {
			return "multiple choice needs at least 2 options"
		}
		matches := 0
		for _, o := range it.Options {
			if quiz.MatchAnswer(o, it.Answer) {
				matches++
			}
		}
		if matches != 1 {
			return fmt.Sprintf("answer matches %d options, want exactly 1", matches)
		}
	}
	return ""
}
