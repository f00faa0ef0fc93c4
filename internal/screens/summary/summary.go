package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonkit/internal/router"
	"github.com/abhisek/lessonkit/internal/screen"
	"github.com/abhisek/lessonkit/internal/session"
	"github.com/abhisek/lessonkit/internal/ui/layout"
	"github.com/abhisek/lessonkit/internal/ui/theme"
)

// SummaryScreen displays the result of a finished session.
type SummaryScreen struct {
	summary *session.Summary
	title   string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen for the named lesson.
func New(summary *session.Summary, title string) *SummaryScreen {
	return &SummaryScreen{summary: summary, title: title}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Lesson Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")

	heading := "Lesson complete!"
	if s.title != "" {
		heading = s.title + " complete!"
	}
	b.WriteString(theme.Centered(theme.Title, width, heading))
	b.WriteString("\n\n")

	verdict := "Keep practicing, you'll get there!"
	if sum.HasPassed {
		verdict = "You passed!"
	}
	scoreStyle := lipgloss.NewStyle().Foreground(theme.ScoreColor(sum.Score, sum.PassingScore)).Bold(true)
	b.WriteString(theme.Centered(scoreStyle, width,
		fmt.Sprintf("Score: %d%%  (pass: %d%%)  %s", sum.Score, sum.PassingScore, verdict)))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	stats := fmt.Sprintf("Time: %d:%02d    Answers: %d    First try: %d/%d    Accuracy: %.0f%%",
		mins, secs, sum.Answered, sum.CorrectFirstTry, sum.TotalQuestions, sum.Accuracy*100)
	b.WriteString(theme.Centered(theme.Body, width, stats))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(min(width-8, 60), 0)))
	b.WriteString(theme.Centered(theme.Subtitle, width, "Activities"))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for _, r := range sum.ActivityResults {
		line := fmt.Sprintf("%d. %-18s %d/%d solved   %d first try   %d attempts",
			r.Index+1, r.Kind, r.Solved, r.Questions, r.CorrectFirstTry, r.Attempts)
		if r.HintsUsed > 0 {
			line += fmt.Sprintf("   %d hints", r.HintsUsed)
		}
		style := theme.Body
		if r.Questions > 0 && r.Solved == r.Questions {
			style = lipgloss.NewStyle().Foreground(theme.Success)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}
