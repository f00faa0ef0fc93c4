package lessongen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/lessonkit/internal/activity"
	"github.com/abhisek/lessonkit/internal/llm"
)

const twoActivities = `{
	"title": "Counting to five",
	"schemaVersion": "v1.0.0",
	"activities": [
		{"type": "counting", "questions": [{"id": "c1", "object": "apple", "count": 3}]},
		{"type": "multiple_choice", "questions": [
			{"id": "m1", "prompt": "2 + 2?", "options": ["3", "4"], "correctIndex": 1}
		]}
	]
}`

const badAnswerKey = `{
	"activities": [
		{"type": "counting", "questions": [{"id": "c1", "object": "apple", "count": 3}]},
		{"type": "number_line", "questions": [{"id": "n1", "min": 0, "max": 10, "target": 12}]}
	]
}`

func TestGenerate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(twoActivities),
		Usage:   llm.Usage{InputTokens: 900, OutputTokens: 300, TotalTokens: 1200},
	})
	svc := NewService(mock, DefaultConfig())

	res, err := svc.Generate(t.Context(), Input{
		Topic:      "counting",
		Activities: 2,
		Kinds:      []activity.Kind{activity.KindCounting, activity.KindMultipleChoice},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	cfg := res.Config
	if len(cfg.Activities) != 2 || cfg.Title != "Counting to five" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.PassingScore != activity.DefaultPassingScore {
		t.Errorf("PassingScore = %d, want default", cfg.PassingScore)
	}
	if res.Requests != 1 || res.Usage.TotalTokens != 1200 {
		t.Errorf("requests = %d, usage = %+v", res.Requests, res.Usage)
	}

	// The canonical JSON must round-trip through the parser.
	if _, err := activity.Parse(res.Canonical); err != nil {
		t.Errorf("canonical JSON does not parse: %v", err)
	}

	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", mock.CallCount())
	}
	req := mock.Calls[0]
	if req.Schema == nil || req.Schema.Name != SchemaName || req.Schema.Strict {
		t.Errorf("schema = %+v", req.Schema)
	}
	msg := req.Messages[0].Content
	for _, want := range []string{"Topic: counting", "Activities: 2", "- counting:", "- multiple_choice:"} {
		if !strings.Contains(msg, want) {
			t.Errorf("user message missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "- rekenrek:") {
		t.Error("user message lists a kind that was not requested")
	}
}

func TestGenerate_RetriesWithFeedback(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(badAnswerKey), Usage: llm.Usage{TotalTokens: 100}},
		llm.MockResponse{Content: json.RawMessage(twoActivities), Usage: llm.Usage{TotalTokens: 150}},
	)
	svc := NewService(mock, DefaultConfig())

	res, err := svc.Generate(t.Context(), Input{Topic: "numbers", Activities: 2})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Config.Title != "Counting to five" {
		t.Errorf("Title = %q", res.Config.Title)
	}
	if res.Requests != 2 || res.Usage.TotalTokens != 250 {
		t.Errorf("requests = %d, usage = %+v, want both requests counted", res.Requests, res.Usage)
	}

	if mock.CallCount() != 2 {
		t.Fatalf("calls = %d, want 2", mock.CallCount())
	}
	second := mock.Calls[1].Messages
	if len(second) != 3 || second[1].Role != llm.RoleAssistant {
		t.Fatalf("follow-up messages = %+v", second)
	}
	if !strings.Contains(second[2].Content, "target 12 outside [0, 10]") {
		t.Errorf("feedback = %q", second[2].Content)
	}
}

func TestGenerate_RepairsSchemaViolations(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"activities": [{"type": "counting", "questions": [{"id": "c1", "object": "star", "count": 40}]}]}`)},
		llm.MockResponse{Content: json.RawMessage(twoActivities)},
	)
	svc := NewService(mock, DefaultConfig())

	res, err := svc.Generate(t.Context(), Input{Topic: "numbers", Activities: 2})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Requests != 2 {
		t.Errorf("requests = %d, want 2", res.Requests)
	}

	second := mock.Calls[1].Messages
	if len(second) != 3 || !strings.Contains(second[1].Content, `"count": 40`) {
		t.Fatalf("rejected draft not replayed: %+v", second)
	}
	if !strings.Contains(second[2].Content, "does not match the lesson schema") ||
		!strings.Contains(second[2].Content, "- /activities/0/questions/0/count: ") {
		t.Errorf("feedback = %q", second[2].Content)
	}
}

func TestGenerate_RepairsParseFailures(t *testing.T) {
	dupPairs := `{"activities": [
		{"type": "counting", "questions": [{"id": "c1", "object": "apple", "count": 3}]},
		{"type": "matching_pairs", "pairs": [{"id": "p1", "left": "2", "right": "two"}, {"id": "p2", "left": "2", "right": "deux"}]}
	]}`
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(dupPairs)},
		llm.MockResponse{Content: json.RawMessage(twoActivities)},
	)
	svc := NewService(mock, DefaultConfig())

	if _, err := svc.Generate(t.Context(), Input{Topic: "numbers", Activities: 2}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	feedback := mock.Calls[1].Messages[2].Content
	if !strings.Contains(feedback, `duplicate left side "2"`) {
		t.Errorf("feedback = %q", feedback)
	}
}

func TestGenerate_FailsClosed(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"activities": []}`)},
		llm.MockResponse{Content: json.RawMessage(badAnswerKey)},
	)
	svc := NewService(mock, DefaultConfig())

	res, err := svc.Generate(t.Context(), Input{Topic: "numbers", Activities: 2})
	if err == nil {
		t.Fatal("expected error")
	}
	if res != nil {
		t.Error("rejected lesson must not be returned")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Validator != "answer-key" || verr.Activity != 1 {
		t.Errorf("error = %v, want answer-key failure on activity 1", err)
	}
	if got := mock.Calls[1].Messages; len(got) != 3 {
		t.Errorf("repair request = %+v, want draft replayed", got)
	}
}

func TestGenerate_InvalidOutputIsReported(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"activities": [{"type": "hologram"}]}`)},
		llm.MockResponse{Content: json.RawMessage(`not json`)},
	)
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Generate(t.Context(), Input{Topic: "numbers"})
	if !errors.Is(err, llm.ErrInvalidOutput) {
		t.Errorf("error = %v, want invalid output", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("calls = %d, want draft plus one repair", mock.CallCount())
	}
}

func TestGenerate_NoRepairsConfigured(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(badAnswerKey)},
		llm.MockResponse{Content: json.RawMessage(twoActivities)},
	)
	cfg := DefaultConfig()
	cfg.MaxRepairs = 0
	svc := NewService(mock, cfg)

	if _, err := svc.Generate(t.Context(), Input{Topic: "numbers", Activities: 2}); err == nil {
		t.Fatal("expected the first rejection to be final")
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unavailable", &llm.Error{Kind: llm.KindUnavailable, Err: errors.New("down")}, llm.ErrUnavailable},
		{"truncated", &llm.Error{Kind: llm.KindTruncated, Output: json.RawMessage(`{"activities":[`)}, llm.ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Err: tt.err}, llm.MockResponse{Content: json.RawMessage(twoActivities)})
			svc := NewService(mock, DefaultConfig())

			_, err := svc.Generate(t.Context(), Input{Topic: "numbers"})
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if mock.CallCount() != 1 {
				t.Errorf("calls = %d, provider errors are not re-prompted", mock.CallCount())
			}
		})
	}
}

func TestGenerate_PurposeLabels(t *testing.T) {
	var purposes []llm.Purpose
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(badAnswerKey)},
		llm.MockResponse{Content: json.RawMessage(twoActivities)},
	)
	p := purposeSpy{Provider: mock, seen: &purposes}
	svc := NewService(p, DefaultConfig())

	if _, err := svc.Generate(t.Context(), Input{Topic: "numbers", Activities: 2}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(purposes) != 2 || purposes[0] != llm.PurposeLessonDraft || purposes[1] != llm.PurposeLessonRepair {
		t.Errorf("purposes = %v", purposes)
	}
}

type purposeSpy struct {
	llm.Provider
	seen *[]llm.Purpose
}

func (p purposeSpy) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	*p.seen = append(*p.seen, llm.PurposeFrom(ctx))
	return p.Provider.Generate(ctx, req)
}

func TestGenerate_PassingScoreOverride(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(twoActivities)})
	svc := NewService(mock, DefaultConfig())

	res, err := svc.Generate(t.Context(), Input{Topic: "counting", Activities: 2, PassingScore: 80})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Config.PassingScore != 80 {
		t.Errorf("PassingScore = %d, want 80", res.Config.PassingScore)
	}
	if !strings.Contains(string(res.Canonical), `"passingScore":80`) {
		t.Errorf("canonical JSON = %s", res.Canonical)
	}
}

func TestGenerate_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{"empty topic", Input{Topic: "  "}},
		{"too many activities", Input{Topic: "x", Activities: 11}},
		{"negative activities", Input{Topic: "x", Activities: -1}},
		{"passing score above 100", Input{Topic: "x", PassingScore: 101}},
		{"unknown kind", Input{Topic: "x", Kinds: []activity.Kind{"hologram"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider()
			svc := NewService(mock, DefaultConfig())
			_, err := svc.Generate(t.Context(), tt.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
			if mock.CallCount() != 0 {
				t.Error("provider should not be called for invalid input")
			}
		})
	}
}

func TestShapeValidator(t *testing.T) {
	cfg, err := activity.Parse([]byte(twoActivities))
	if err != nil {
		t.Fatal(err)
	}
	v := &ShapeValidator{}

	if verr := v.Validate(cfg, Input{Activities: 2}); verr != nil {
		t.Errorf("unexpected failure: %v", verr)
	}
	if verr := v.Validate(cfg, Input{Activities: 3}); verr == nil || verr.Activity != -1 {
		t.Errorf("count mismatch = %v", verr)
	}
	verr := v.Validate(cfg, Input{Activities: 2, Kinds: []activity.Kind{activity.KindCounting}})
	if verr == nil || verr.Activity != 1 {
		t.Errorf("kind mismatch = %v", verr)
	}
}

func TestCheckAnswerKey(t *testing.T) {
	tests := []struct {
		name string
		a    activity.Activity
		want string
	}{
		{"valid choice", activity.MultipleChoice{Questions: []activity.MultipleChoiceQuestion{
			{ID: "q", Options: []string{"a", "b"}, CorrectIndex: 1},
		}}, ""},
		{"index out of range", activity.MultipleChoice{Questions: []activity.MultipleChoiceQuestion{
			{ID: "q", Options: []string{"a", "b"}, CorrectIndex: 2},
		}}, "out of range"},
		{"duplicate option", activity.MultipleChoice{Questions: []activity.MultipleChoiceQuestion{
			{ID: "q", Options: []string{"Cat", "cat "}, CorrectIndex: 0},
		}}, "appears twice"},
		{"duplicate right side", activity.MatchingPairs{Pairs: []activity.MatchingPair{
			{ID: "a", Left: "1", Right: "one"}, {ID: "b", Left: "2", Right: "one"},
		}}, "right side"},
		{"single item sequence", activity.SequenceOrder{Questions: []activity.SequenceQuestion{
			{ID: "s", Items: []string{"a"}},
		}}, "nothing to order"},
		{"blank answer", activity.FillInBlank{Questions: []activity.BlankQuestion{
			{ID: "f", Text: "___", Answer: " "},
		}}, "empty answer"},
		{"part exceeds whole", activity.NumberBond{Questions: []activity.BondQuestion{
			{ID: "b", Whole: 5, Part: 6},
		}}, "exceeds whole"},
		{"inverted line", activity.NumberLine{Questions: []activity.LineQuestion{
			{ID: "n", Min: 10, Max: 0, Target: 5},
		}}, "not below max"},
		{"flash cards always pass", activity.FlashCard{Cards: []activity.Card{{ID: "c", Front: "a", Back: "b"}}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkAnswerKey(tt.a)
			if tt.want == "" && got != "" {
				t.Errorf("checkAnswerKey() = %q, want pass", got)
			}
			if tt.want != "" && !strings.Contains(got, tt.want) {
				t.Errorf("checkAnswerKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
