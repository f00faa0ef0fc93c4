package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonkit/internal/ui/theme"
)

// TextInput wraps bubbles/textinput for typed answers.
type TextInput struct {
	Model       textinput.Model
	NumericOnly bool
	verdict     int // 0 none, 1 correct, -1 incorrect
}

// NewTextInput creates a focused text input. When numericOnly is set only
// digits and a leading minus sign are accepted.
func NewTextInput(placeholder string, numericOnly bool, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Model: ti, NumericOnly: numericOnly}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.NumericOnly {
		if kmsg, ok := msg.(tea.KeyPressMsg); ok && !allowNumeric(kmsg.String(), t.Model.Value()) {
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func allowNumeric(key, current string) bool {
	if len(key) != 1 {
		return true
	}
	c := key[0]
	return (c >= '0' && c <= '9') || (c == '-' && current == "")
}

// View renders the text input with a verdict mark once marked.
func (t TextInput) View() string {
	view := t.Model.View()
	switch t.verdict {
	case 1:
		view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	case -1:
		view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Mark records the verdict for the submitted value.
func (t *TextInput) Mark(correct bool) {
	if correct {
		t.verdict = 1
	} else {
		t.verdict = -1
	}
}

// Clear empties the input and removes any verdict.
func (t *TextInput) Clear() {
	t.Model.Reset()
	t.verdict = 0
}
