package play

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonkit/internal/activity"
	"github.com/abhisek/lessonkit/internal/session"
	"github.com/abhisek/lessonkit/internal/ui/components"
	"github.com/abhisek/lessonkit/internal/ui/theme"
)

func (s *PlayScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	a, qi := s.sess.Current()
	if a == nil {
		return theme.Centered(theme.Subtitle, width, "\n\nThis lesson has no questions.")
	}
	st := s.sess.State()
	prompt := activity.PromptFor(a, qi)

	var b strings.Builder
	b.WriteString("\n")

	total := max(st.Metrics.TotalQuestions, 1)
	bar := components.NewProgressBar("", float64(s.sess.Position()-1)/float64(total), false, min(width-8, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Subtitle, width, a.Kind().Label()))
	b.WriteString("\n\n")

	cardWidth := min(width-4, 70)
	var card strings.Builder
	card.WriteString(theme.Body.Bold(true).Render(prompt.Text))
	card.WriteString("\n\n")
	correct := st.Feedback == session.FeedbackCorrect
	if s.mcActive {
		card.WriteString(s.choice.View(correct))
	} else {
		card.WriteString("Answer: " + s.input.View())
	}
	if s.showHint {
		card.WriteString("\n\n")
		hint := prompt.Hint
		if hint == "" {
			hint = "No hint for this one. Take your time!"
		}
		card.WriteString(theme.Hint.Render("Hint: " + hint))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Card.Width(cardWidth).Render(card.String())))
	b.WriteString("\n\n")

	if st.ShowingFeedback() {
		b.WriteString(renderFeedback(st.Feedback, width))
	}

	return b.String()
}

func renderFeedback(f session.FeedbackType, width int) string {
	if f == session.FeedbackCorrect {
		return theme.Centered(theme.Correct, width, "Correct!") + "\n" +
			theme.Centered(theme.Subtitle, width, "Press Enter to continue")
	}
	return theme.Centered(theme.Incorrect, width, "Not quite") + "\n" +
		theme.Centered(theme.Subtitle, width, "Press R to try again or Enter to move on")
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(theme.Centered(theme.Body.Bold(true), width, "Leave this lesson?"))
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Subtitle, width, "Unfinished lessons are not saved."))
	b.WriteString("\n\n")
	b.WriteString(theme.Centered(lipgloss.NewStyle().Foreground(theme.Error), width, "[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(theme.Centered(lipgloss.NewStyle().Foreground(theme.Primary), width, "[N] No, keep going"))
	return b.String()
}
