package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lessonkit/internal/activity"
)

// Options configures a Session.
type Options struct {
	// ID identifies the session. A random UUID is used when empty.
	ID string

	// Now is the clock used for per-question timing. Defaults to time.Now.
	Now func() time.Time

	// OnComplete is called once when the session completes.
	OnComplete CompletionFunc
}

// Session drives one learner through one lesson. It owns the current State
// and forwards each user action to the Engine. A Session is not safe for
// concurrent use; callers serialize interaction.
type Session struct {
	id        string
	engine    *Engine
	state     State
	notifier  *Notifier
	now       func() time.Time
	startedAt time.Time
}

// New starts a session for a validated lesson config.
func New(cfg *activity.LessonConfig, opts Options) *Session {
	if opts.ID == "" {
		opts.ID = uuid.New().String()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	engine := NewEngine(cfg)
	start := opts.Now()
	return &Session{
		id:        opts.ID,
		engine:    engine,
		state:     engine.Start(start),
		notifier:  NewNotifier(opts.OnComplete),
		now:       opts.Now,
		startedAt: start,
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Engine returns the engine backing this session.
func (s *Session) Engine() *Engine { return s.engine }

// State returns a copy of the current state.
func (s *Session) State() State {
	st := s.state
	st.Metrics = s.state.Metrics.clone()
	return st
}

// Current returns the current activity and the question index within it.
func (s *Session) Current() (activity.Activity, int) {
	acts := s.engine.Activities()
	if s.state.ActivityIndex < 0 || s.state.ActivityIndex >= len(acts) {
		return nil, 0
	}
	return acts[s.state.ActivityIndex], s.state.QuestionIndex
}

// Position returns the 1-based number of the current question across the
// whole lesson, capped at the total.
func (s *Session) Position() int {
	acts := s.engine.Activities()
	n := 0
	for i := 0; i < s.state.ActivityIndex && i < len(acts); i++ {
		n += activity.QuestionsInActivity(acts[i])
	}
	return min(n+s.state.QuestionIndex+1, s.engine.TotalQuestions())
}

// QuestionID returns the id of the current question.
func (s *Session) QuestionID() string {
	return s.engine.QuestionID(s.state)
}

// RecordAnswer submits an answer for the current question.
func (s *Session) RecordAnswer(given string, correct bool) error {
	next, err := s.engine.RecordAnswer(s.state, given, correct, s.now())
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// UseHint marks the current question as hinted.
func (s *Session) UseHint() {
	s.state = s.engine.UseHint(s.state)
}

// DismissFeedback returns to the current question without advancing.
func (s *Session) DismissFeedback() error {
	next, err := s.engine.DismissFeedback(s.state, s.now())
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// NextQuestion advances the session. When this completes the session, the
// completion callback fires; it never fires a second time.
func (s *Session) NextQuestion() error {
	next, completion, err := s.engine.NextQuestion(s.state, s.now())
	if err != nil {
		return err
	}
	s.state = next
	if completion != nil {
		completion.SessionID = s.id
		completion.StartedAt = s.startedAt
		s.notifier.Deliver(completion)
	}
	return nil
}

// Completed reports whether the completion callback has fired.
func (s *Session) Completed() bool {
	return s.notifier.Delivered()
}
