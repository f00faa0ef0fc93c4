package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  "gpt-4.1-mini",
	}
}

func openAICompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4.1-mini",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     40,
			"completion_tokens": 25,
			"total_tokens":      65,
		},
	}
}

func TestOpenAIProvider_StructuredOutput(t *testing.T) {
	var body map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openAICompletion(validActivities, "stop"))
	}

	p := newTestOpenAIProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		System:    "You design lessons.",
		Messages:  []Message{{Role: RoleUser, Content: "Counting to five."}},
		Schema:    activitySchema(),
		MaxTokens: 2048,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 65 {
		t.Errorf("total tokens = %d, want 65", resp.Usage.TotalTokens)
	}

	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want system + user", len(msgs))
	}
	format, _ := body["response_format"].(map[string]any)
	schema, _ := format["json_schema"].(map[string]any)
	if format["type"] != "json_schema" || schema["name"] != "test-activities" {
		t.Errorf("response_format = %v", format)
	}
	if schema["strict"] != false {
		t.Errorf("strict = %v, want false for a oneOf schema", schema["strict"])
	}
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openAICompletion(`{"activities":[`, "length"))
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "x"}},
		Schema:    activitySchema(),
		MaxTokens: 5,
	})
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncated output, got: %T (%v)", err, err)
	}
	if out, ok := OutputOf(err); !ok || string(out) != `{"activities":[` {
		t.Errorf("output = %s, want the partial draft", out)
	}
}

func TestOpenAIProvider_ErrorMapping(t *testing.T) {
	errHandler := func(status int) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"type": "error", "message": http.StatusText(status)},
			})
		}
	}

	t.Run("rate limit", func(t *testing.T) {
		p := newTestOpenAIProvider(t, errHandler(http.StatusTooManyRequests))
		_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
		if !errors.Is(err, ErrRateLimited) {
			t.Fatalf("expected rate limit, got: %T (%v)", err, err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		p := newTestOpenAIProvider(t, errHandler(http.StatusBadGateway))
		_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("expected unavailable provider, got: %T (%v)", err, err)
		}
	})

	t.Run("unknown model", func(t *testing.T) {
		p := newTestOpenAIProvider(t, errHandler(http.StatusNotFound))
		_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
		if !errors.Is(err, ErrRejected) {
			t.Fatalf("expected rejected request, got: %T (%v)", err, err)
		}
	})
}

func TestNewOpenRouterProvider(t *testing.T) {
	tests := []struct {
		name      string
		cfg       OpenRouterConfig
		wantModel string
		wantErr   bool
	}{
		{"default base URL", OpenRouterConfig{APIKey: "sk-or-test", Model: "google/gemini-2.5-flash"}, "google/gemini-2.5-flash", false},
		{"custom base URL", OpenRouterConfig{APIKey: "sk-or-test", Model: "x/y", BaseURL: "https://router.example/v1"}, "x/y", false},
		{"vendor ids pass through", OpenRouterConfig{APIKey: "sk-or-test", Model: "anthropic/claude-haiku-4-5"}, "anthropic/claude-haiku-4-5", false},
		{"empty API key", OpenRouterConfig{Model: "x/y"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewOpenRouterProvider(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && p.ModelID() != tt.wantModel {
				t.Errorf("model = %q, want %q", p.ModelID(), tt.wantModel)
			}
			if err == nil && p.Name() != ProviderOpenRouter {
				t.Errorf("name = %q, want %q", p.Name(), ProviderOpenRouter)
			}
		})
	}
}
