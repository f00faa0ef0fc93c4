package play

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lessonkit/internal/activity"
	"github.com/abhisek/lessonkit/internal/router"
	"github.com/abhisek/lessonkit/internal/screen"
	"github.com/abhisek/lessonkit/internal/screens/summary"
	"github.com/abhisek/lessonkit/internal/session"
)

const lesson = `{
	"title": "Shapes and sums",
	"activities": [
		{"type": "multiple_choice", "questions": [
			{"id": "m1", "prompt": "How many sides does a triangle have?", "options": ["2", "3", "4"], "correctIndex": 1, "hint": "Count the corners."}
		]},
		{"type": "number_bond", "questions": [
			{"id": "b1", "whole": 6, "part": 2}
		]}
	]
}`

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testScreen(t *testing.T, onComplete session.CompletionFunc) *PlayScreen {
	t.Helper()
	cfg, err := activity.Parse([]byte(lesson))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	return New(cfg, session.Options{
		ID:         "play-test",
		Now:        func() time.Time { now = now.Add(time.Second); return now },
		OnComplete: onComplete,
	})
}

func send(t *testing.T, s *PlayScreen, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var (
		scr screen.Screen = s
		cmd tea.Cmd
	)
	for _, m := range msgs {
		scr, cmd = scr.Update(m)
	}
	if scr != s {
		t.Fatal("screen replaced itself")
	}
	return cmd
}

func TestPlayScreen_StartsOnFirstQuestion(t *testing.T) {
	s := testScreen(t, nil)
	if !s.mcActive {
		t.Error("expected multiple choice input for the first question")
	}
	if s.Title() != "Shapes and sums" {
		t.Errorf("Title = %q", s.Title())
	}
	if s.Status() != "Q 1/2  Score 0%" {
		t.Errorf("Status = %q", s.Status())
	}
	if view := s.View(100, 30); !strings.Contains(view, "triangle") {
		t.Error("view should show the question prompt")
	}
}

func TestPlayScreen_FullLesson(t *testing.T) {
	var completions []session.Completion
	s := testScreen(t, func(c session.Completion) { completions = append(completions, c) })

	// Choose option 3 (wrong), retry, then option 2.
	send(t, s, keyPress('3'))
	st := s.sess.State()
	if !st.ShowingFeedback() || st.Feedback != session.FeedbackIncorrect {
		t.Fatalf("state after wrong answer = %+v", st)
	}
	send(t, s, keyPress('r'))
	if s.sess.State().ShowingFeedback() || s.choice.Submitted() {
		t.Fatal("retry should return to answering with a fresh choice")
	}
	send(t, s, keyPress('2'))
	if s.sess.State().Feedback != session.FeedbackCorrect {
		t.Fatal("expected option 2 to be correct")
	}

	// Advance to the number bond and answer by typing.
	send(t, s, specialKey(tea.KeyEnter))
	if s.mcActive {
		t.Fatal("expected text input for the number bond")
	}
	if s.Status() != "Q 2/2  Score 50%" {
		t.Errorf("Status = %q", s.Status())
	}
	send(t, s, keyPress('4'), specialKey(tea.KeyEnter))
	if s.sess.State().Feedback != session.FeedbackCorrect {
		t.Fatalf("typed answer not graded correct, input = %q", s.input.Value())
	}

	cmd := send(t, s, specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command after the last question")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("expected summary screen, got %T", msg.Screen)
	}

	if len(completions) != 1 {
		t.Fatalf("completions = %d, want 1", len(completions))
	}
	c := completions[0]
	if c.SessionID != "play-test" || c.Metrics.Score != 100 || c.Metrics.CorrectFirstTry != 1 || !c.HasPassed {
		t.Errorf("completion = %+v", c)
	}

	// Further keys do nothing once complete.
	if cmd := send(t, s, specialKey(tea.KeyEnter)); cmd != nil {
		t.Error("expected no command after completion")
	}
	if len(completions) != 1 {
		t.Error("completion delivered twice")
	}
}

func TestPlayScreen_Hint(t *testing.T) {
	s := testScreen(t, nil)
	send(t, s, keyPress('?'))

	if !s.sess.State().HintUsed || !s.showHint {
		t.Fatal("expected hint to be recorded and shown")
	}
	if view := s.View(100, 30); !strings.Contains(view, "Count the corners.") {
		t.Error("view should show the hint text")
	}

	send(t, s, keyPress('2'))
	last, _ := s.sess.State().LastAnswer()
	if !last.HintUsed {
		t.Error("answer should be recorded as hinted")
	}

	send(t, s, specialKey(tea.KeyEnter))
	if s.showHint {
		t.Error("hint should be hidden on the next question")
	}
}

func TestPlayScreen_CtrlHRequestsHint(t *testing.T) {
	s := testScreen(t, nil)
	send(t, s, tea.KeyPressMsg{Code: 'h', Mod: tea.ModCtrl})
	if !s.sess.State().HintUsed {
		t.Error("ctrl+h should request a hint")
	}
}

func TestPlayScreen_RetryOnlyAfterIncorrect(t *testing.T) {
	s := testScreen(t, nil)
	send(t, s, keyPress('2'), keyPress('r'))
	if !s.sess.State().ShowingFeedback() {
		t.Error("r should not dismiss feedback after a correct answer")
	}
}

func TestPlayScreen_EmptyAnswerIgnored(t *testing.T) {
	s := testScreen(t, nil)
	send(t, s, keyPress('2'), specialKey(tea.KeyEnter))

	send(t, s, specialKey(tea.KeyEnter))
	if len(s.sess.State().Metrics.Answers) != 1 {
		t.Error("empty input should not be submitted")
	}
}

func TestPlayScreen_NumericInputFiltersLetters(t *testing.T) {
	s := testScreen(t, nil)
	send(t, s, keyPress('2'), specialKey(tea.KeyEnter))

	send(t, s, keyPress('x'), keyPress('4'))
	if s.input.Value() != "4" {
		t.Errorf("input = %q, want %q", s.input.Value(), "4")
	}
}

func TestPlayScreen_QuitConfirm(t *testing.T) {
	completed := false
	s := testScreen(t, func(session.Completion) { completed = true })

	send(t, s, specialKey(tea.KeyEscape))
	if !s.confirmQuit {
		t.Fatal("expected quit confirmation")
	}
	if view := s.View(80, 24); !strings.Contains(view, "Leave this lesson?") {
		t.Error("expected confirmation view")
	}

	send(t, s, keyPress('n'))
	if s.confirmQuit {
		t.Fatal("expected confirmation to be dismissed")
	}

	send(t, s, specialKey(tea.KeyEscape))
	cmd := send(t, s, keyPress('y'))
	if cmd == nil {
		t.Fatal("expected a command after confirming")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
	if completed {
		t.Error("abandoning must not complete the session")
	}
}

func TestPlayScreen_KeyHints(t *testing.T) {
	s := testScreen(t, nil)
	if hints := s.KeyHints(); len(hints) != 3 || hints[0].Description != "Submit" {
		t.Errorf("answering hints = %+v", hints)
	}

	send(t, s, keyPress('1'))
	hints := s.KeyHints()
	if len(hints) != 3 || hints[1].Key != "R" {
		t.Errorf("incorrect feedback hints = %+v", hints)
	}
}
