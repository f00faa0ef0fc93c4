// Package play is the screen that walks a learner through one lesson.
package play

import (
	"strconv"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lessonkit/internal/activity"
	"github.com/abhisek/lessonkit/internal/router"
	"github.com/abhisek/lessonkit/internal/screen"
	"github.com/abhisek/lessonkit/internal/screens/summary"
	"github.com/abhisek/lessonkit/internal/session"
	"github.com/abhisek/lessonkit/internal/ui/components"
	"github.com/abhisek/lessonkit/internal/ui/layout"
)

// PlayScreen drives a session.Session from keyboard input. Answers are
// graded with the activity answer key and handed to the session.
type PlayScreen struct {
	cfg        *activity.LessonConfig
	sess       *session.Session
	completion *session.Completion

	input    components.TextInput
	choice   components.MultiChoice
	mcActive bool

	showHint    bool
	confirmQuit bool
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.StatusProvider = (*PlayScreen)(nil)

// New starts a session for cfg. opts.OnComplete, if set, still receives
// the completion exactly once.
func New(cfg *activity.LessonConfig, opts session.Options) *PlayScreen {
	s := &PlayScreen{cfg: cfg}
	next := opts.OnComplete
	opts.OnComplete = func(c session.Completion) {
		s.completion = &c
		if next != nil {
			next(c)
		}
	}
	s.sess = session.New(cfg, opts)
	s.setupQuestion()
	return s
}

// Session returns the session driven by this screen.
func (s *PlayScreen) Session() *session.Session { return s.sess }

func (s *PlayScreen) Init() tea.Cmd {
	if s.mcActive {
		return nil
	}
	return s.input.Init()
}

func (s *PlayScreen) Title() string {
	if s.cfg.Title != "" {
		return s.cfg.Title
	}
	return "Lesson"
}

func (s *PlayScreen) Status() string {
	st := s.sess.State()
	return "Q " + strconv.Itoa(s.sess.Position()) + "/" + strconv.Itoa(st.Metrics.TotalQuestions) +
		"  Score " + strconv.Itoa(st.Metrics.Score) + "%"
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave lesson"},
			{Key: "N", Description: "Keep going"},
		}
	}
	st := s.sess.State()
	if st.ShowingFeedback() {
		hints := []layout.KeyHint{{Key: "Enter", Description: "Next"}}
		if st.Feedback == session.FeedbackIncorrect {
			hints = append(hints, layout.KeyHint{Key: "R", Description: "Try again"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "?", Description: "Hint"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if !s.mcActive {
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}
		return s, nil
	}
	return s.handleKey(kmsg)
}

func (s *PlayScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	st := s.sess.State()
	if st.IsComplete() {
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "?", "ctrl+h":
		s.sess.UseHint()
		s.showHint = true
		return s, nil
	}

	if st.ShowingFeedback() {
		switch key {
		case "enter":
			return s.advance()
		case "r", "R":
			if st.Feedback == session.FeedbackIncorrect {
				return s.retry()
			}
		}
		return s, nil
	}

	if s.mcActive {
		var chosen bool
		s.choice, chosen = s.choice.Update(msg)
		if chosen {
			s.submit(s.choice.Options[s.choice.Chosen])
		}
		return s, nil
	}

	if key == "enter" {
		if s.input.Value() != "" {
			s.submit(s.input.Value())
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submit grades answer and records it.
func (s *PlayScreen) submit(answer string) {
	a, qi := s.sess.Current()
	if a == nil {
		return
	}
	correct := activity.CheckAnswer(a, qi, answer)
	if err := s.sess.RecordAnswer(answer, correct); err != nil {
		return
	}
	s.input.Mark(correct)
}

func (s *PlayScreen) advance() (screen.Screen, tea.Cmd) {
	if err := s.sess.NextQuestion(); err != nil {
		return s, nil
	}
	if s.completion != nil {
		sum := session.BuildSummary(s.cfg, *s.completion)
		next := summary.New(sum, s.Title())
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	s.setupQuestion()
	return s, s.Init()
}

func (s *PlayScreen) retry() (screen.Screen, tea.Cmd) {
	if err := s.sess.DismissFeedback(); err != nil {
		return s, nil
	}
	s.input.Clear()
	s.choice.Reset()
	return s, nil
}

// setupQuestion prepares the input widget for the current question.
func (s *PlayScreen) setupQuestion() {
	s.showHint = false
	a, qi := s.sess.Current()
	if a == nil {
		return
	}
	if a.Kind() == activity.KindMultipleChoice {
		s.mcActive = true
		s.choice = components.NewMultiChoice(activity.PromptFor(a, qi).Choices)
		return
	}
	s.mcActive = false
	s.input = components.NewTextInput(placeholder(a.Kind()), numeric(a.Kind()), 60)
}

func numeric(k activity.Kind) bool {
	switch k {
	case activity.KindCounting, activity.KindNumberBond, activity.KindTenFrame,
		activity.KindNumberLine, activity.KindRekenrek:
		return true
	}
	return false
}

func placeholder(k activity.Kind) string {
	switch k {
	case activity.KindMatchingPairs:
		return "left=right, left=right..."
	case activity.KindSequenceOrder:
		return "first, second, third..."
	}
	if numeric(k) {
		return "Type a number..."
	}
	return "Type your answer..."
}
