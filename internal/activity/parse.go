package activity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedMajorVersion is the only schemaVersion major accepted.
const SupportedMajorVersion = "v1"

// MalformedConfigError reports a lesson config rejected as a whole.
type MalformedConfigError struct {
	Err error
}

func (e *MalformedConfigError) Error() string {
	return fmt.Sprintf("malformed lesson config: %v", e.Err)
}

func (e *MalformedConfigError) Unwrap() error { return e.Err }

// IsMalformed reports whether err is (or wraps) a MalformedConfigError.
func IsMalformed(err error) bool {
	var mc *MalformedConfigError
	return errors.As(err, &mc)
}

type wireConfig struct {
	Title            string            `json:"title"`
	SchemaVersion    string            `json:"schemaVersion"`
	PassingScore     *int              `json:"passingScore"`
	EstimatedMinutes float64           `json:"estimatedMinutes"`
	Activities       []json.RawMessage `json:"activities"`
}

// Parse validates untrusted JSON and decodes it into a LessonConfig.
// Any invalid element rejects the whole config.
func Parse(data []byte) (*LessonConfig, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedConfigError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile lesson schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &MalformedConfigError{Err: err}
	}

	var w wireConfig
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &MalformedConfigError{Err: err}
	}

	if w.SchemaVersion != "" {
		if !semver.IsValid(w.SchemaVersion) {
			return nil, &MalformedConfigError{Err: fmt.Errorf("schemaVersion %q is not a semantic version", w.SchemaVersion)}
		}
		if major := semver.Major(w.SchemaVersion); major != SupportedMajorVersion {
			return nil, &MalformedConfigError{Err: fmt.Errorf("schemaVersion major %s not supported (want %s)", major, SupportedMajorVersion)}
		}
	}

	cfg := &LessonConfig{
		Title:            w.Title,
		SchemaVersion:    w.SchemaVersion,
		PassingScore:     DefaultPassingScore,
		EstimatedMinutes: w.EstimatedMinutes,
		Activities:       make([]Activity, 0, len(w.Activities)),
	}
	if w.PassingScore != nil {
		cfg.PassingScore = *w.PassingScore
	}

	for i, raw := range w.Activities {
		a, err := decodeActivity(raw)
		if err != nil {
			return nil, &MalformedConfigError{Err: fmt.Errorf("activity %d: %w", i, err)}
		}
		cfg.Activities = append(cfg.Activities, a)
	}

	return cfg, nil
}

// ParseYAML decodes a YAML lesson config and validates it like Parse.
func ParseYAML(data []byte) (*LessonConfig, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedConfigError{Err: fmt.Errorf("invalid YAML: %w", err)}
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, &MalformedConfigError{Err: fmt.Errorf("convert YAML: %w", err)}
	}
	return Parse(asJSON)
}

// LoadFile reads and parses a config file. Files ending in .yaml or .yml
// are decoded as YAML; everything else as JSON.
func LoadFile(path string) (*LessonConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lesson config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Parse(data)
	}
}

// IsInteractiveSession reports whether a lesson of the given kind with the
// given content should be run through the session engine.
func IsInteractiveSession(kind LessonKind, content []byte) bool {
	if kind != LessonInteractive && kind != LessonQuiz {
		return false
	}
	_, err := Parse(content)
	return err == nil
}

func decodeActivity(raw json.RawMessage) (Activity, error) {
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}

	var (
		a   Activity
		err error
	)
	switch head.Type {
	case KindMultipleChoice:
		a, err = decodeAs[MultipleChoice](raw)
	case KindCounting:
		a, err = decodeAs[Counting](raw)
	case KindMatchingPairs:
		a, err = decodeAs[MatchingPairs](raw)
	case KindSequenceOrder:
		a, err = decodeAs[SequenceOrder](raw)
	case KindFlashCard:
		a, err = decodeAs[FlashCard](raw)
	case KindFillInBlank:
		a, err = decodeAs[FillInBlank](raw)
	case KindNumberBond:
		a, err = decodeAs[NumberBond](raw)
	case KindTenFrame:
		a, err = decodeAs[TenFrame](raw)
	case KindNumberLine:
		a, err = decodeAs[NumberLine](raw)
	case KindRekenrek:
		a, err = decodeAs[Rekenrek](raw)
	default:
		return nil, fmt.Errorf("unknown activity type %q", head.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Type, err)
	}
	if QuestionsInActivity(a) == 0 {
		return nil, fmt.Errorf("%s has no questions", head.Type)
	}
	if m, ok := a.(MatchingPairs); ok {
		if err := checkPairSides(m.Pairs); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// checkPairSides rejects matching pairs whose left or right sides repeat,
// compared case-insensitively after trimming.
func checkPairSides(pairs []MatchingPair) error {
	lefts := make(map[string]bool, len(pairs))
	rights := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		l, r := normalize(p.Left), normalize(p.Right)
		if lefts[l] {
			return fmt.Errorf("matching_pairs: duplicate left side %q", p.Left)
		}
		if rights[r] {
			return fmt.Errorf("matching_pairs: duplicate right side %q", p.Right)
		}
		lefts[l], rights[r] = true, true
	}
	return nil
}

func decodeAs[T Activity](raw json.RawMessage) (Activity, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// MarshalJSON encodes a LessonConfig back into its wire form.
func (c LessonConfig) MarshalJSON() ([]byte, error) {
	out := struct {
		Title            string            `json:"title,omitempty"`
		SchemaVersion    string            `json:"schemaVersion,omitempty"`
		PassingScore     int               `json:"passingScore"`
		EstimatedMinutes float64           `json:"estimatedMinutes,omitempty"`
		Activities       []json.RawMessage `json:"activities"`
	}{
		Title:            c.Title,
		SchemaVersion:    c.SchemaVersion,
		PassingScore:     c.PassingScore,
		EstimatedMinutes: c.EstimatedMinutes,
	}
	for _, a := range c.Activities {
		body, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, err
		}
		fields["type"], _ = json.Marshal(a.Kind())
		merged, err := json.Marshal(fields)
		if err != nil {
			return nil, err
		}
		out.Activities = append(out.Activities, merged)
	}
	return json.Marshal(out)
}
