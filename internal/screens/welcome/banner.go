package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonkit/internal/ui/theme"
)

const compactWidth = 40

// RenderBanner returns the lesson title in a rounded box styled in the
// primary color. Narrow terminals get the bare title.
func RenderBanner(title string, width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < compactWidth {
		return style.Render(title)
	}
	return style.
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(1, 4).
		Render(title)
}
