package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/lessonkit/internal/activity"
)

// ErrInvalidTransition is returned when an operation is not permitted in
// the current phase. The state is returned unchanged alongside it.
var ErrInvalidTransition = errors.New("invalid session transition")

func invalid(op string, s State) error {
	return fmt.Errorf("%s while %s: %w", op, s.Phase, ErrInvalidTransition)
}

// Completion is the one-shot result produced when a session first enters
// PhaseComplete.
type Completion struct {
	SessionID    string
	Metrics      Metrics
	HasPassed    bool
	PassingScore int
	StartedAt    time.Time
	CompletedAt  time.Time
}

// Engine holds the constants derived from a validated lesson config and
// implements the session transitions as pure functions over State.
type Engine struct {
	activities     []activity.Activity
	totalQuestions int
	passingScore   int
}

// NewEngine builds an Engine for cfg. The total question count is computed
// here once and never changes.
func NewEngine(cfg *activity.LessonConfig) *Engine {
	return &Engine{
		activities:     cfg.Activities,
		totalQuestions: activity.CountTotalQuestions(cfg.Activities),
		passingScore:   cfg.PassingScore,
	}
}

// TotalQuestions returns the lesson-level question count.
func (e *Engine) TotalQuestions() int { return e.totalQuestions }

// PassingScore returns the score needed to pass.
func (e *Engine) PassingScore() int { return e.passingScore }

// Activities returns the lesson's activities in order.
func (e *Engine) Activities() []activity.Activity { return e.activities }

// Start returns the initial state: answering the first question.
func (e *Engine) Start(now time.Time) State {
	return State{
		Phase:         PhaseAnswering,
		Feedback:      FeedbackNone,
		Metrics:       Metrics{TotalQuestions: e.totalQuestions},
		QuestionStart: now,
		Attempt:       1,
	}
}

// QuestionID resolves the id of the question s is positioned on.
func (e *Engine) QuestionID(s State) string {
	return activity.ResolveQuestionID(e.activities, s.ActivityIndex, s.QuestionIndex)
}

// RecordAnswer appends an answer event for the current question, updates
// the metrics and moves to feedback. An incorrect answer bumps the attempt
// number for the next try at the same question.
func (e *Engine) RecordAnswer(s State, given string, correct bool, now time.Time) (State, error) {
	if s.Phase != PhaseAnswering {
		return s, invalid("record answer", s)
	}

	elapsed := now.Sub(s.QuestionStart).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}

	ev := AnswerEvent{
		QuestionID:    e.QuestionID(s),
		GivenAnswer:   given,
		IsCorrect:     correct,
		TimeMs:        elapsed,
		HintUsed:      s.HintUsed,
		AttemptNumber: s.Attempt,
		ActivityIndex: s.ActivityIndex,
		QuestionIndex: s.QuestionIndex,
	}

	next := s
	next.Metrics = s.Metrics.clone()
	newlySolved := correct && !s.Solved
	applyAnswer(&next.Metrics, ev, newlySolved)

	next.Phase = PhaseFeedback
	if correct {
		next.Feedback = FeedbackCorrect
		next.Solved = true
	} else {
		next.Feedback = FeedbackIncorrect
		next.Attempt++
	}
	return next, nil
}

// UseHint marks the current question as hinted. It is idempotent and valid
// in every phase; the flag reaches an event only at the next RecordAnswer.
func (e *Engine) UseHint(s State) State {
	s.HintUsed = true
	return s
}

// DismissFeedback returns to answering the same question. The question
// timer restarts at now, so each attempt's TimeMs covers only that attempt.
func (e *Engine) DismissFeedback(s State, now time.Time) (State, error) {
	if s.Phase != PhaseFeedback {
		return s, invalid("dismiss feedback", s)
	}
	s.Phase = PhaseAnswering
	s.Feedback = FeedbackNone
	s.QuestionStart = now
	return s, nil
}

// NextQuestion advances to the next question, the first question of the
// next activity, or PhaseComplete. The returned Completion is non-nil only
// on the transition into PhaseComplete.
func (e *Engine) NextQuestion(s State, now time.Time) (State, *Completion, error) {
	if s.Phase != PhaseFeedback {
		return s, nil, invalid("next question", s)
	}

	next := s
	next.Feedback = FeedbackNone
	next.QuestionStart = now
	next.Attempt = 1
	next.HintUsed = false
	next.Solved = false

	switch {
	case s.QuestionIndex+1 < e.questionsAt(s.ActivityIndex):
		next.QuestionIndex++
		next.Phase = PhaseAnswering
		return next, nil, nil
	case s.ActivityIndex+1 < len(e.activities):
		next.ActivityIndex++
		next.QuestionIndex = 0
		next.Phase = PhaseAnswering
		return next, nil, nil
	}

	next.Phase = PhaseComplete
	next.HasPassed = next.Metrics.Score >= e.passingScore
	next.Metrics = s.Metrics.clone()

	return next, &Completion{
		Metrics:      next.Metrics.clone(),
		HasPassed:    next.HasPassed,
		PassingScore: e.passingScore,
		CompletedAt:  now,
	}, nil
}

func (e *Engine) questionsAt(activityIndex int) int {
	if activityIndex < 0 || activityIndex >= len(e.activities) {
		return 0
	}
	return activity.QuestionsInActivity(e.activities[activityIndex])
}
