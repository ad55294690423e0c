package itemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/studydeck/internal/quiz"
)

const systemPrompt = `You write flashcards that help a learner review a document.

Rules:
- Every card must be answerable from the document alone. Do not use outside knowledge.
- Prompts are self-contained questions. Never refer to "the document" or "the text".
- Answers are short: a word, a phrase or one sentence.
- Most cards are recall cards with an empty options list.
- Use multiple choice only where plausible distractors exist. Give exactly 4 options with exactly one correct, and repeat the correct option verbatim as the answer.
- Do not write two cards that test the same fact.
- Rate each card's difficulty honestly and tag the cognitive level it exercises.`

// buildUserMessage constructs the user message for one generation request.
func buildUserMessage(doc document, opts quiz.GenerateOptions) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Document: %s\n", doc.name)
	fmt.Fprintf(&b, "Cards wanted: %d\n", opts.Count)
	fmt.Fprintf(&b, "Difficulty: %s\n", difficultyGuidance(opts.Difficulty))

	if bl := opts.BloomLevel; bl != nil {
		b.WriteString("\nCards per cognitive level:\n")
		for _, lvl := range []struct {
			name string
			n    int
		}{
			{"remember", bl.Remember},
			{"understand", bl.Understand},
			{"apply", bl.Apply},
			{"analyze", bl.Analyze},
			{"evaluate", bl.Evaluate},
			{"create", bl.Create},
		} {
			if lvl.n > 0 {
				fmt.Fprintf(&b, "- %s: %d\n", lvl.name, lvl.n)
			}
		}
	}

	if doc.truncated {
		b.WriteString("\nOnly the beginning of the document is included.\n")
	}
	b.WriteString("\n<document>\n")
	b.WriteString(doc.text)
	b.WriteString("\n</document>")

	return b.String()
}

func difficultyGuidance(d quiz.Difficulty) string {
	switch d {
	case quiz.DifficultyEasy, quiz.DifficultyMedium, quiz.DifficultyHard:
		return fmt.Sprintf("%s (every card)", d)
	case quiz.DifficultyMixed:
		return "mixed (spread cards across easy, medium and hard)"
	default:
		return "any"
	}
}
