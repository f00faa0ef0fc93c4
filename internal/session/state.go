package session

import (
	"time"
)

// Phase represents where the session is in its lifecycle.
type Phase int

const (
	PhaseAnswering Phase = iota // Waiting for an answer to the current question
	PhaseFeedback               // Showing feedback for the last answer
	PhaseComplete               // Terminal: every question has been visited
)

func (p Phase) String() string {
	switch p {
	case PhaseAnswering:
		return "answering"
	case PhaseFeedback:
		return "feedback"
	case PhaseComplete:
		return "complete"
	}
	return "unknown"
}

// FeedbackType is the verdict shown after an answer.
type FeedbackType int

const (
	FeedbackNone FeedbackType = iota
	FeedbackCorrect
	FeedbackIncorrect
)

func (f FeedbackType) String() string {
	switch f {
	case FeedbackCorrect:
		return "correct"
	case FeedbackIncorrect:
		return "incorrect"
	}
	return "none"
}

// AnswerEvent is an immutable record of one submitted answer.
type AnswerEvent struct {
	QuestionID    string `json:"questionId"`
	GivenAnswer   string `json:"givenAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	TimeMs        int64  `json:"timeMs"`
	HintUsed      bool   `json:"hintUsed"`
	AttemptNumber int    `json:"attemptNumber"`

	// Position of the question within the lesson.
	ActivityIndex int `json:"activityIndex"`
	QuestionIndex int `json:"questionIndex"`
}

// Metrics accumulates scoring data for one session.
type Metrics struct {
	// TotalQuestions is the lesson-level question count, fixed at start.
	TotalQuestions  int   `json:"totalQuestions"`
	CorrectFirstTry int   `json:"correctFirstTry"`
	CorrectTotal    int   `json:"correctTotal"`
	TotalTimeMs     int64 `json:"totalTimeMs"`
	HintsUsed       int   `json:"hintsUsed"`
	Score           int   `json:"score"`

	// QuestionsSolved counts distinct questions with at least one correct answer.
	QuestionsSolved int `json:"questionsSolved"`

	Answers []AnswerEvent `json:"answers"`
}

// clone returns a copy whose Answers slice does not alias m's.
func (m Metrics) clone() Metrics {
	out := m
	if m.Answers != nil {
		out.Answers = make([]AnswerEvent, len(m.Answers))
		copy(out.Answers, m.Answers)
	}
	return out
}

// State is a snapshot of a running session. Values are never mutated by
// transitions; each transition returns a new State.
type State struct {
	ActivityIndex int
	QuestionIndex int
	Phase         Phase
	Feedback      FeedbackType
	HasPassed     bool
	Metrics       Metrics

	// Per-question tracking, reset whenever the current question changes.
	QuestionStart time.Time
	Attempt       int
	HintUsed      bool
	Solved        bool
}

// IsComplete reports whether the session reached its terminal phase.
func (s State) IsComplete() bool {
	return s.Phase == PhaseComplete
}

// ShowingFeedback reports whether feedback for the last answer is displayed.
func (s State) ShowingFeedback() bool {
	return s.Phase == PhaseFeedback
}

// LastAnswer returns the most recent answer event, if any.
func (s State) LastAnswer() (AnswerEvent, bool) {
	if len(s.Metrics.Answers) == 0 {
		return AnswerEvent{}, false
	}
	return s.Metrics.Answers[len(s.Metrics.Answers)-1], true
}
