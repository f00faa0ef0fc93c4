package lessongen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/lessonkit/internal/activity"
)

// Validator checks a generated lesson beyond what the schema can express.
type Validator interface {
	// Name returns a short identifier used in error messages.
	Name() string

	// Validate returns nil if cfg is acceptable for in.
	Validate(cfg *activity.LessonConfig, in Input) *ValidationError
}

// ValidationError describes why a generated lesson was rejected.
type ValidationError struct {
	Validator string
	Activity  int // index of the offending activity, -1 for the lesson
	Message   string
}

func (e *ValidationError) Error() string {
	if e.Activity < 0 {
		return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
	}
	return fmt.Sprintf("validator %q: activity %d: %s", e.Validator, e.Activity, e.Message)
}

// ShapeValidator checks that the lesson has the requested number of
// activities and only the requested kinds.
type ShapeValidator struct{}

func (v *ShapeValidator) Name() string { return "shape" }

func (v *ShapeValidator) Validate(cfg *activity.LessonConfig, in Input) *ValidationError {
	if in.Activities > 0 && len(cfg.Activities) != in.Activities {
		return &ValidationError{
			Validator: v.Name(),
			Activity:  -1,
			Message:   fmt.Sprintf("got %d activities, asked for %d", len(cfg.Activities), in.Activities),
		}
	}
	if len(in.Kinds) == 0 {
		return nil
	}
	for i, a := range cfg.Activities {
		if !slices.Contains(in.Kinds, a.Kind()) {
			return &ValidationError{
				Validator: v.Name(),
				Activity:  i,
				Message:   fmt.Sprintf("kind %s was not requested", a.Kind()),
			}
		}
	}
	return nil
}

// AnswerKeyValidator checks that every question has exactly one reachable
// correct answer.
type AnswerKeyValidator struct{}

func (v *AnswerKeyValidator) Name() string { return "answer-key" }

func (v *AnswerKeyValidator) Validate(cfg *activity.LessonConfig, _ Input) *ValidationError {
	for i, a := range cfg.Activities {
		if msg := checkAnswerKey(a); msg != "" {
			return &ValidationError{Validator: v.Name(), Activity: i, Message: msg}
		}
	}
	return nil
}

func checkAnswerKey(a activity.Activity) string {
	switch a := a.(type) {
	case activity.MultipleChoice:
		for _, q := range a.Questions {
			if q.CorrectIndex >= len(q.Options) {
				return fmt.Sprintf("%s: correctIndex %d out of range for %d options", q.ID, q.CorrectIndex, len(q.Options))
			}
			if dup := firstDuplicate(q.Options); dup != "" {
				return fmt.Sprintf("%s: option %q appears twice", q.ID, dup)
			}
		}
	case activity.MatchingPairs:
		lefts := make([]string, len(a.Pairs))
		rights := make([]string, len(a.Pairs))
		for i, p := range a.Pairs {
			lefts[i], rights[i] = p.Left, p.Right
		}
		if dup := firstDuplicate(lefts); dup != "" {
			return fmt.Sprintf("left side %q appears twice", dup)
		}
		if dup := firstDuplicate(rights); dup != "" {
			return fmt.Sprintf("right side %q appears twice", dup)
		}
	case activity.SequenceOrder:
		for _, q := range a.Questions {
			if len(q.Items) < 2 {
				return fmt.Sprintf("%s: nothing to order", q.ID)
			}
		}
	case activity.FillInBlank:
		for _, q := range a.Questions {
			if strings.TrimSpace(q.Answer) == "" {
				return fmt.Sprintf("%s: empty answer", q.ID)
			}
		}
	case activity.NumberBond:
		for _, q := range a.Questions {
			if q.Part > q.Whole {
				return fmt.Sprintf("%s: part %d exceeds whole %d", q.ID, q.Part, q.Whole)
			}
		}
	case activity.NumberLine:
		for _, q := range a.Questions {
			if q.Min >= q.Max {
				return fmt.Sprintf("%s: min %d not below max %d", q.ID, q.Min, q.Max)
			}
			if q.Target < q.Min || q.Target > q.Max {
				return fmt.Sprintf("%s: target %d outside [%d, %d]", q.ID, q.Target, q.Min, q.Max)
			}
		}
	}
	return ""
}

func firstDuplicate(values []string) string {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		key := strings.ToLower(strings.TrimSpace(v))
		if seen[key] {
			return v
		}
		seen[key] = true
	}
	return ""
}
