package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonkit/internal/activity"
	"github.com/abhisek/lessonkit/internal/ui/layout"
	"github.com/abhisek/lessonkit/internal/router"
	"github.com/abhisek/lessonkit/internal/screen"
	"github.com/abhisek/lessonkit/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 300 * time.Millisecond
	totalDur     = 800 * time.Millisecond
)

type tickMsg time.Time

// WelcomeScreen introduces a lesson before it starts: the title first, then
// the outline of its activities. Enter starts the lesson.
type WelcomeScreen struct {
	cfg          *activity.LessonConfig
	startFactory func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen for cfg. startFactory builds the screen that
// replaces it when the learner starts.
func New(cfg *activity.LessonConfig, startFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		cfg:          cfg,
		startFactory: startFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if w.elapsed >= totalDur {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter", "space", " ":
			return w, w.transition()
		case "esc", "q":
			return w, func() tea.Msg { return router.PopScreenMsg{} }
		default:
			// Any other key skips the reveal.
			w.elapsed = totalDur
		}
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.startFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	title := w.cfg.Title
	if title == "" {
		title = "Lesson"
	}
	sections := []string{RenderBanner(title, width)}

	if w.elapsed >= phase1End {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(theme.TextDim).Render(w.overview()))
	}

	if w.elapsed >= totalDur {
		sections = append(sections, "")
		for i, a := range w.cfg.Activities {
			n := activity.QuestionsInActivity(a)
			noun := "questions"
			if n == 1 {
				noun = "question"
			}
			sections = append(sections, theme.Body.Render(fmt.Sprintf("%d. %-18s %d %s", i+1, a.Kind().Label(), n, noun)))
		}
		sections = append(sections, "",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press Enter to start"))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (w *WelcomeScreen) overview() string {
	parts := []string{
		fmt.Sprintf("%d questions", activity.CountTotalQuestions(w.cfg.Activities)),
	}
	if w.cfg.EstimatedMinutes > 0 {
		parts = append(parts, fmt.Sprintf("about %g min", w.cfg.EstimatedMinutes))
	}
	parts = append(parts, fmt.Sprintf("pass at %d%%", w.cfg.PassingScore))
	return strings.Join(parts, "  ·  ")
}
