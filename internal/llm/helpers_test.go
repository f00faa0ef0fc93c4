package llm

import (
	"context"
	"sync"

	"github.com/abhisek/lessonkit/internal/store"
)

// activitySchema is a cut-down lesson config schema: a non-empty list of
// activities discriminated by "type".
func activitySchema() *Schema {
	counting := map[string]any{
		"properties": map[string]any{
			"type": map[string]any{"const": "counting"},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":    map[string]any{"type": "string", "minLength": 1},
						"count": map[string]any{"type": "integer", "minimum": 0},
					},
					"required": []any{"id", "count"},
				},
			},
		},
		"required": []any{"type", "questions"},
	}
	flash := map[string]any{
		"properties": map[string]any{
			"type": map[string]any{"const": "flash_card"},
			"cards": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":    map[string]any{"type": "string"},
						"front": map[string]any{"type": "string"},
						"back":  map[string]any{"type": "string"},
					},
					"required": []any{"id", "front", "back"},
				},
			},
		},
		"required": []any{"type", "cards"},
	}

	return &Schema{
		Name:        "test-activities",
		Description: "A list of activities",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"passingScore": map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
				"activities": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type":     "object",
						"required": []any{"type"},
						"oneOf":    []any{counting, flash},
					},
				},
			},
			"required": []any{"activities"},
		},
	}
}

const validActivities = `{"passingScore":70,"activities":[` +
	`{"type":"counting","questions":[{"id":"c1","count":4}]},` +
	`{"type":"flash_card","cards":[{"id":"f1","front":"2+2","back":"4"}]}]}`

// recordingRepo is an in-memory store.EventRepo.
type recordingRepo struct {
	store.EventRepo

	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, data)
	return nil
}
