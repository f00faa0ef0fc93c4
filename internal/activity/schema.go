package activity

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://lesson-activity-config.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// SchemaDefinition returns the JSON Schema every lesson config must satisfy.
// A fresh map is returned on each call so callers may modify it.
func SchemaDefinition() map[string]any {
	kinds := make([]any, 0, len(AllKinds()))
	for _, k := range AllKinds() {
		kinds = append(kinds, string(k))
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short lesson title shown to the learner",
			},
			"schemaVersion": map[string]any{
				"type":        "string",
				"description": "Semantic version of the config format, e.g. v1.0.0",
			},
			"passingScore": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     100,
				"description": "Minimum score (percent) needed to pass",
			},
			"estimatedMinutes": map[string]any{
				"type":    "number",
				"minimum": 0,
			},
			"activities": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{"type": "string", "enum": kinds},
					},
					"required": []any{"type"},
					"oneOf":    variantSchemas(),
				},
			},
		},
		"required": []any{"activities"},
	}
}

func variantSchemas() []any {
	str := map[string]any{"type": "string"}
	integer := map[string]any{"type": "integer"}
	nonNegative := map[string]any{"type": "integer", "minimum": 0}
	strList := map[string]any{"type": "array", "items": str, "minItems": 1}

	return []any{
		variant(KindMultipleChoice, "questions", map[string]any{
			"prompt":       str,
			"options":      map[string]any{"type": "array", "items": str, "minItems": 2},
			"correctIndex": nonNegative,
		}, "prompt", "options", "correctIndex"),
		variant(KindCounting, "questions", map[string]any{
			"prompt": str,
			"object": str,
			"count":  map[string]any{"type": "integer", "minimum": 0, "maximum": MaxCount},
		}, "object", "count"),
		map[string]any{
			"properties": map[string]any{
				"type":   map[string]any{"const": string(KindMatchingPairs)},
				"prompt": str,
				"hint":   str,
				"pairs": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"id":    map[string]any{"type": "string", "minLength": 1},
							"left":  str,
							"right": str,
						},
						"required": []any{"id", "left", "right"},
					},
				},
			},
			"required": []any{"type", "pairs"},
		},
		variant(KindSequenceOrder, "questions", map[string]any{
			"prompt": str,
			"items":  strList,
		}, "prompt", "items"),
		variant(KindFlashCard, "cards", map[string]any{
			"front": str,
			"back":  str,
		}, "front", "back"),
		variant(KindFillInBlank, "questions", map[string]any{
			"text":   str,
			"answer": str,
		}, "text", "answer"),
		variant(KindNumberBond, "questions", map[string]any{
			"whole": nonNegative,
			"part":  nonNegative,
		}, "whole", "part"),
		variant(KindTenFrame, "questions", map[string]any{
			"filled": map[string]any{"type": "integer", "minimum": 0, "maximum": 10},
			"prompt": str,
		}, "filled"),
		variant(KindNumberLine, "questions", map[string]any{
			"min":    integer,
			"max":    integer,
			"target": integer,
		}, "min", "max", "target"),
		variant(KindRekenrek, "questions", map[string]any{
			"target": map[string]any{"type": "integer", "minimum": 0, "maximum": 20},
			"prompt": str,
		}, "target"),
	}
}

// variant builds the schema of a list-based activity whose items live under
// listField. Every item gets a required non-empty id and an optional hint.
func variant(kind Kind, listField string, itemProps map[string]any, required ...string) map[string]any {
	props := map[string]any{
		"id":   map[string]any{"type": "string", "minLength": 1},
		"hint": map[string]any{"type": "string"},
	}
	for k, v := range itemProps {
		props[k] = v
	}
	req := []any{"id"}
	for _, r := range required {
		req = append(req, r)
	}

	return map[string]any{
		"properties": map[string]any{
			"type": map[string]any{"const": string(kind)},
			listField: map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":       "object",
					"properties": props,
					"required":   req,
				},
			},
		},
		"required": []any{"type", listField},
	}
}

// compiledSchema compiles SchemaDefinition once per process.
func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler expects a decoded JSON value, not Go ints.
		raw, err := json.Marshal(SchemaDefinition())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}
