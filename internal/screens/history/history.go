package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonkit/internal/router"
	"github.com/abhisek/lessonkit/internal/screen"
	"github.com/abhisek/lessonkit/internal/store"
	"github.com/abhisek/lessonkit/internal/ui/layout"
	"github.com/abhisek/lessonkit/internal/ui/theme"
)

// DefaultLimit is the number of sessions loaded.
const DefaultLimit = 50

type historyLoadedMsg struct {
	Sessions []store.SessionRecord
	Err      error
}

type detailLoadedMsg struct {
	Index   int
	Session *store.SessionRecord
	Err     error
}

// HistoryScreen lists finished sessions. Enter expands a session's
// answer log, loaded on demand.
type HistoryScreen struct {
	repo     store.SessionRepo
	sessions []store.SessionRecord
	details  map[int]*store.SessionRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.SessionRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		details:  make(map[int]*store.SessionRecord),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		sessions, err := s.repo.RecentSessions(context.Background(), store.QueryOpts{Limit: DefaultLimit})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case detailLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.details[msg.Index] = msg.Session
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			if len(s.sessions) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			if s.expanded[s.selected] && s.details[s.selected] == nil {
				return s, s.loadDetail(s.selected)
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) loadDetail(idx int) tea.Cmd {
	id := s.sessions[idx].ID
	return func() tea.Msg {
		rec, err := s.repo.GetSession(context.Background(), id)
		return detailLoadedMsg{Index: idx, Session: rec, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return theme.Centered(lipgloss.NewStyle().Foreground(theme.Error), width,
			fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return theme.Centered(theme.Subtitle, width, "\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return theme.Centered(theme.Subtitle.Italic(true), width, "\n\n  No sessions yet. Play a lesson!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := prefix + formatSession(rec)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = theme.Selected
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderDetail(i, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderDetail(idx, width int) string {
	rec := s.details[idx]
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	if rec == nil {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    Loading...")) + "\n"
	}
	if len(rec.Answers) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    No answers recorded")) + "\n"
	}

	var b strings.Builder
	for _, a := range rec.Answers {
		style := lipgloss.NewStyle().Foreground(theme.Success)
		if !a.IsCorrect {
			style = lipgloss.NewStyle().Foreground(theme.Error)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(formatAnswer(a))))
		b.WriteString("\n")
	}
	return b.String()
}

func formatSession(rec store.SessionRecord) string {
	title := rec.LessonTitle
	if title == "" {
		title = "Untitled lesson"
	}
	result := "not passed"
	if rec.HasPassed {
		result = "passed"
	}
	secs := rec.TotalTimeMs / 1000
	return fmt.Sprintf("%s  %-24s  %3d%%  %s  %d:%02d",
		rec.CompletedAt.Local().Format("Jan 02, 2006"), title, rec.Score, result, secs/60, secs%60)
}

func formatAnswer(a store.AnswerRecord) string {
	mark := "✓"
	if !a.IsCorrect {
		mark = "✗"
	}
	line := fmt.Sprintf("    %s %-12s %q  try %d  %.1fs", mark, a.QuestionID, a.GivenAnswer, a.AttemptNumber, float64(a.TimeMs)/1000)
	if a.HintUsed {
		line += "  hint"
	}
	return line
}
