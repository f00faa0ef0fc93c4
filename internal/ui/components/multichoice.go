package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonkit/internal/ui/theme"
)

// MultiChoice is an option selector. It knows nothing about which option
// is correct; the caller grades the chosen index.
type MultiChoice struct {
	Options  []string
	Selected int
	Chosen   int // -1 until submitted
}

// NewMultiChoice creates a selector over options.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options, Chosen: -1}
}

// Submitted reports whether an option has been chosen.
func (m MultiChoice) Submitted() bool {
	return m.Chosen >= 0
}

// Update handles arrow navigation, enter, and number keys 1-9. It reports
// true when the message chose an option.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, bool) {
	if m.Submitted() {
		return m, false
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.Chosen = m.Selected
		return m, true
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			idx := int(key[0] - '1')
			if idx < len(m.Options) {
				m.Selected = idx
				m.Chosen = idx
				return m, true
			}
		}
	}
	return m, false
}

// Reset clears the chosen option so the learner can try again.
func (m *MultiChoice) Reset() {
	m.Chosen = -1
}

// View renders the options. After submission the chosen option is colored
// by correct.
func (m MultiChoice) View(correct bool) string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted() {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Submitted() && i == m.Chosen && correct:
			style = theme.Correct
		case m.Submitted() && i == m.Chosen:
			style = theme.Incorrect
		case m.Submitted():
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
