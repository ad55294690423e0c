package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydeck/internal/ui/theme"
)

// MaxChoiceKeys is how many options can be picked with a number key.
const MaxChoiceKeys = 9

// Choices is a numbered option list for structured-choice items.
type Choices struct {
	Options  []string
	Selected int
}

// NewChoices creates a choice list with the first option selected.
func NewChoices(options []string) Choices {
	return Choices{Options: options}
}

// Update moves the selection. It returns the chosen option and true when
// the learner picks one, by number key or Enter.
func (c Choices) Update(msg tea.Msg) (Choices, string, bool) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(c.Options) == 0 {
		return c, "", false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "enter":
		return c, c.Options[c.Selected], true
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			i := int(key[0] - '1')
			if i < len(c.Options) {
				c.Selected = i
				return c, c.Options[i], true
			}
		}
	}
	return c, "", false
}

// View renders the options.
func (c Choices) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		key := " "
		if i < MaxChoiceKeys {
			key = fmt.Sprint(i + 1)
		}
		if i == c.Selected {
			b.WriteString(theme.Selected.Render(fmt.Sprintf("> %s) %s", key, opt)))
		} else {
			b.WriteString(theme.Unselected.Render(fmt.Sprintf("  %s) %s", key, opt)))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
