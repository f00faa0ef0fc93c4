package llm

import "context"

// Purpose labels why a request was made. It is stored with every logged
// request and groups the usage report.
type Purpose string

const (
	PurposeUnknown Purpose = "unknown"

	// PurposeLessonDraft is the first request for a new lesson.
	PurposeLessonDraft Purpose = "lesson-draft"

	// PurposeLessonRepair follows a rejected draft with the reasons it
	// was rejected.
	PurposeLessonRepair Purpose = "lesson-repair"
)

type purposeKey struct{}

// WithPurpose attaches p to ctx for the logging decorator.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the purpose attached to ctx, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}
