package store

import (
	"context"
	"time"
)

// QueryOpts configures queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// AnswerRecord is one persisted answer event, in submission order.
type AnswerRecord struct {
	QuestionID    string
	GivenAnswer   string
	IsCorrect     bool
	TimeMs        int64
	HintUsed      bool
	AttemptNumber int
	ActivityIndex int
	QuestionIndex int
}

// SessionRecord is a finished session with its metrics and answer log.
type SessionRecord struct {
	ID              string
	Sequence        int64
	LessonTitle     string
	StartedAt       time.Time
	CompletedAt     time.Time
	TotalQuestions  int
	CorrectFirstTry int
	CorrectTotal    int
	TotalTimeMs     int64
	HintsUsed       int
	Score           int
	PassingScore    int
	HasPassed       bool
	Answers         []AnswerRecord
}

// SessionRepo persists finished sessions.
type SessionRepo interface {
	// SaveSession stores a session and its answers in one transaction.
	SaveSession(ctx context.Context, rec SessionRecord) error

	// GetSession returns a session with its answers, or nil if absent.
	GetSession(ctx context.Context, id string) (*SessionRecord, error)

	// RecentSessions returns sessions newest first, without answers.
	RecentSessions(ctx context.Context, opts QueryOpts) ([]SessionRecord, error)

	// DeleteAllSessions removes every session and answer.
	DeleteAllSessions(ctx context.Context) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or nil if absent.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
