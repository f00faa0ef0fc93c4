// Package sessionlog persists finished sessions through the store.
package sessionlog

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/lessonkit/internal/session"
	"github.com/abhisek/lessonkit/internal/store"
)

// DefaultSaveTimeout bounds a single save.
const DefaultSaveTimeout = 5 * time.Second

// Recorder turns a session completion into a stored session record.
type Recorder struct {
	repo        store.SessionRepo
	lessonTitle string
	timeout     time.Duration
	onError     func(error)
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithTimeout overrides DefaultSaveTimeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Recorder) { r.timeout = d }
}

// WithErrorHandler replaces the default stderr warning.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Recorder) { r.onError = fn }
}

// NewRecorder creates a Recorder that saves sessions of the named lesson.
func NewRecorder(repo store.SessionRepo, lessonTitle string, opts ...Option) *Recorder {
	r := &Recorder{
		repo:        repo,
		lessonTitle: lessonTitle,
		timeout:     DefaultSaveTimeout,
		onError: func(err error) {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// OnComplete saves c. It satisfies session.CompletionFunc. Failures go to
// the error handler and are not retried.
func (r *Recorder) OnComplete(c session.Completion) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.repo.SaveSession(ctx, ToRecord(c, r.lessonTitle)); err != nil {
		r.onError(fmt.Errorf("save session %s: %w", c.SessionID, err))
	}
}

// ToRecord maps a completion into its stored form.
func ToRecord(c session.Completion, lessonTitle string) store.SessionRecord {
	m := c.Metrics
	rec := store.SessionRecord{
		ID:              c.SessionID,
		LessonTitle:     lessonTitle,
		StartedAt:       c.StartedAt,
		CompletedAt:     c.CompletedAt,
		TotalQuestions:  m.TotalQuestions,
		CorrectFirstTry: m.CorrectFirstTry,
		CorrectTotal:    m.CorrectTotal,
		TotalTimeMs:     m.TotalTimeMs,
		HintsUsed:       m.HintsUsed,
		Score:           m.Score,
		PassingScore:    c.PassingScore,
		HasPassed:       c.HasPassed,
		Answers:         make([]store.AnswerRecord, len(m.Answers)),
	}
	for i, ev := range m.Answers {
		rec.Answers[i] = store.AnswerRecord{
			QuestionID:    ev.QuestionID,
			GivenAnswer:   ev.GivenAnswer,
			IsCorrect:     ev.IsCorrect,
			TimeMs:        ev.TimeMs,
			HintUsed:      ev.HintUsed,
			AttemptNumber: ev.AttemptNumber,
			ActivityIndex: ev.ActivityIndex,
			QuestionIndex: ev.QuestionIndex,
		}
	}
	return rec
}
