package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextInput wraps bubbles/textinput with an accepted-character filter.
type TextInput struct {
	Model textinput.Model

	// Accept filters single printable keys. Nil accepts everything.
	Accept func(r rune) bool
}

// NewTextInput creates a focused text input.
func NewTextInput(placeholder, value string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(value)
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()
	return TextInput{Model: ti}
}

// Update handles messages, dropping keys the filter rejects.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && t.Accept != nil {
		if r := []rune(kmsg.Text); len(r) == 1 && !t.Accept(r[0]) {
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// Focus focuses the input.
func (t *TextInput) Focus() tea.Cmd { return t.Model.Focus() }

// Blur removes focus.
func (t *TextInput) Blur() { t.Model.Blur() }

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool { return t.Model.Focused() }

// View renders the text input.
func (t TextInput) View() string { return t.Model.View() }

// Value returns the current input value.
func (t TextInput) Value() string { return t.Model.Value() }
