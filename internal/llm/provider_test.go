package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/lessonkit/internal/store"
)

func TestMockProvider(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
	)
	mock.AddResponse(MockResponse{Err: &Error{Kind: KindRateLimited}})

	resp, err := mock.Generate(context.Background(), Request{System: "sys"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"a":1}` || resp.Usage.InputTokens != 10 || resp.Model != "mock" {
		t.Errorf("first response = %+v", resp)
	}

	_, err = mock.Generate(context.Background(), Request{})
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("second call error = %v, want rate limit", err)
	}

	_, err = mock.Generate(context.Background(), Request{})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("exhausted script error = %v, want unavailable", err)
	}

	if mock.CallCount() != 3 || mock.Calls[0].System != "sys" {
		t.Errorf("calls = %d, first system = %q", mock.CallCount(), mock.Calls[0].System)
	}
	if mock.Name() != ProviderMock {
		t.Errorf("Name() = %q", mock.Name())
	}
}

func TestMockProvider_ChecksSchema(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"activities":[]}`)},
		MockResponse{Content: json.RawMessage(validActivities)},
	)
	req := Request{Schema: activitySchema()}

	_, err := mock.Generate(context.Background(), req)
	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want schema error", err)
	}
	if _, err := mock.Generate(context.Background(), req); err != nil {
		t.Fatalf("valid lesson rejected: %v", err)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != PurposeUnknown {
		t.Fatalf("expected unknown, got %q", p)
	}
	ctx = WithPurpose(ctx, PurposeLessonRepair)
	if p := PurposeFrom(ctx); p != PurposeLessonRepair {
		t.Fatalf("expected lesson-repair, got %q", p)
	}
}

func TestUsageAdd(t *testing.T) {
	got := Usage{InputTokens: 1, OutputTokens: 2, TotalTokens: 3}.Add(Usage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30})
	if got != (Usage{InputTokens: 11, OutputTokens: 22, TotalTokens: 33}) {
		t.Errorf("Add = %+v", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"anthropic without key", Config{Provider: ProviderAnthropic}, "LESSONKIT_ANTHROPIC_API_KEY"},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "k"}}, ""},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, "LESSONKIT_OPENROUTER_API_KEY"},
		{"gemini with key", Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "k"}}, ""},
		{"mock needs no key", Config{Provider: ProviderMock}, ""},
		{"unknown provider", Config{Provider: "llama"}, "unknown LLM provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func clearLLMEnv(t *testing.T) {
	for _, k := range []string{
		"LESSONKIT_LLM_PROVIDER", "LESSONKIT_LLM_TIMEOUT",
		"LESSONKIT_ANTHROPIC_API_KEY", "LESSONKIT_ANTHROPIC_MODEL",
		"LESSONKIT_OPENAI_API_KEY", "LESSONKIT_OPENAI_MODEL", "LESSONKIT_OPENAI_BASE_URL",
		"LESSONKIT_GEMINI_API_KEY", "LESSONKIT_GEMINI_MODEL",
		"LESSONKIT_OPENROUTER_API_KEY", "LESSONKIT_OPENROUTER_MODEL", "LESSONKIT_OPENROUTER_BASE_URL",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("LESSONKIT_LLM_PROVIDER", "openai")
	t.Setenv("LESSONKIT_OPENAI_API_KEY", "sk-test")
	t.Setenv("LESSONKIT_OPENAI_MODEL", "gpt-4o")
	t.Setenv("LESSONKIT_LLM_TIMEOUT", "45s")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "sk-test" || cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("timeout = %v, want 45s", cfg.Timeout)
	}
	if cfg.Anthropic.Model != DefaultConfig().Anthropic.Model {
		t.Errorf("unset model should keep default, got %q", cfg.Anthropic.Model)
	}
}

func TestResolveConfig(t *testing.T) {
	t.Run("discovers vendor key", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("GEMINI_API_KEY", "g-key")
		cfg, err := ResolveConfig()
		if err != nil {
			t.Fatalf("ResolveConfig: %v", err)
		}
		if cfg.Provider != ProviderGemini || cfg.Gemini.APIKey != "g-key" {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("explicit provider is not overridden", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("LESSONKIT_LLM_PROVIDER", "openai")
		t.Setenv("ANTHROPIC_API_KEY", "a-key")
		if _, err := ResolveConfig(); err == nil {
			t.Fatal("expected missing key error for the explicit provider")
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		clearLLMEnv(t)
		if _, err := ResolveConfig(); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestNewProvider_MockWithLogging(t *testing.T) {
	repo := &recordingRepo{}
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock, Retry: retryConfig(), Timeout: time.Second}, repo)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("ModelID() = %q", p.ModelID())
	}

	// The factory's mock has no canned responses, so every attempt fails
	// and every attempt is logged.
	_, err = p.Generate(WithPurpose(context.Background(), PurposeLessonDraft), Request{})
	if err == nil {
		t.Fatal("expected error from empty mock")
	}
	if len(repo.events) != 3 {
		t.Fatalf("logged events = %d, want one per attempt", len(repo.events))
	}
	if repo.events[0].Provider != ProviderMock || repo.events[0].Purpose != string(PurposeLessonDraft) || repo.events[0].Success {
		t.Errorf("event = %+v", repo.events[0])
	}
}

func TestLoggingProvider(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(validActivities),
		Usage:   Usage{InputTokens: 12, OutputTokens: 34},
	})
	p := WithLogging(mock, repo)

	req := Request{
		System:   "You design lessons.",
		Messages: []Message{{Role: RoleUser, Content: "Counting"}},
		Schema:   activitySchema(),
	}
	if _, err := p.Generate(WithPurpose(context.Background(), PurposeLessonDraft), req); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("events = %d, want 1", len(repo.events))
	}
	ev := repo.events[0]
	if !ev.Success || ev.InputTokens != 12 || ev.OutputTokens != 34 || ev.Model != "mock" || ev.Provider != ProviderMock {
		t.Errorf("event = %+v", ev)
	}
	for _, want := range []string{"[system]", "[user]\nCounting", "[schema: test-activities]"} {
		if !strings.Contains(ev.RequestBody, want) {
			t.Errorf("request body missing %q:\n%s", want, ev.RequestBody)
		}
	}
	if ev.ResponseBody != validActivities {
		t.Errorf("response body = %q", ev.ResponseBody)
	}
}

func TestLoggingProvider_RepoFailureDoesNotFailRequest(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, repo)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
}

func TestLoggingProvider_KeepsRejectedDraft(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"activities":[]}`)})
	p := WithLogging(mock, repo)

	ctx := WithPurpose(context.Background(), PurposeLessonRepair)
	if _, err := p.Generate(ctx, Request{Schema: activitySchema()}); err == nil {
		t.Fatal("expected the empty lesson to be rejected")
	}

	if len(repo.events) != 1 {
		t.Fatalf("events = %d, want 1", len(repo.events))
	}
	ev := repo.events[0]
	if ev.Success || ev.Purpose != "lesson-repair" {
		t.Errorf("event = %+v", ev)
	}
	if ev.ResponseBody != `{"activities":[]}` {
		t.Errorf("response body = %q, want the rejected draft", ev.ResponseBody)
	}
	if !strings.Contains(ev.ErrorMessage, "output is not a valid lesson") {
		t.Errorf("error message = %q", ev.ErrorMessage)
	}
}

func TestWithTimeout(t *testing.T) {
	slow := providerFunc(func(ctx context.Context, _ Request) (*Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	p := WithTimeout(slow, 5*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want deadline exceeded", err)
	}
}

type providerFunc func(context.Context, Request) (*Response, error)

func (f providerFunc) Generate(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

func (f providerFunc) Name() string    { return "func" }
func (f providerFunc) ModelID() string { return "func" }

func TestLookupCost(t *testing.T) {
	if c := LookupCost("gpt-4.1"); c == nil || c.Cost(1_000_000, 1_000_000) != 10 {
		t.Errorf("LookupCost(gpt-4.1) = %+v", c)
	}
	if c := LookupCost("google/gemini-2.5-flash"); c == nil {
		t.Error("expected OpenRouter id to resolve by model name")
	}
	if c := LookupCost("mock"); c != nil {
		t.Errorf("LookupCost(mock) = %+v, want nil", c)
	}
}

var _ store.EventRepo = (*recordingRepo)(nil)
