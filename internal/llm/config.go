package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for OpenAI-compatible APIs
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults. Lesson configs are
// long structured documents, so the defaults lean on mid-size models.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-sonnet"},
		OpenAI:     OpenAIConfig{Model: "gpt-4.1-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 90 * time.Second,
	}
}

// envKey returns the LESSONKIT_-prefixed name of a provider setting.
func envKey(provider, setting string) string {
	return fmt.Sprintf("LESSONKIT_%s_%s", strings.ToUpper(provider), setting)
}

// ConfigFromEnv builds a Config from LESSONKIT_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("LESSONKIT_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	if d := os.Getenv("LESSONKIT_LLM_TIMEOUT"); d != "" {
		if v, err := time.ParseDuration(d); err == nil && v > 0 {
			cfg.Timeout = v
		}
	}

	setIf(&cfg.Anthropic.APIKey, envKey(ProviderAnthropic, "API_KEY"))
	setIf(&cfg.Anthropic.Model, envKey(ProviderAnthropic, "MODEL"))

	setIf(&cfg.OpenAI.APIKey, envKey(ProviderOpenAI, "API_KEY"))
	setIf(&cfg.OpenAI.Model, envKey(ProviderOpenAI, "MODEL"))
	setIf(&cfg.OpenAI.BaseURL, envKey(ProviderOpenAI, "BASE_URL"))

	setIf(&cfg.Gemini.APIKey, envKey(ProviderGemini, "API_KEY"))
	setIf(&cfg.Gemini.Model, envKey(ProviderGemini, "MODEL"))

	setIf(&cfg.OpenRouter.APIKey, envKey(ProviderOpenRouter, "API_KEY"))
	setIf(&cfg.OpenRouter.Model, envKey(ProviderOpenRouter, "MODEL"))
	setIf(&cfg.OpenRouter.BaseURL, envKey(ProviderOpenRouter, "BASE_URL"))

	return cfg
}

func setIf(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DiscoverConfig checks the standard vendor API key variables in priority
// order (Anthropic, OpenAI, Gemini, OpenRouter) and returns a Config for the
// first provider whose key is set. Returns (Config{}, false) if none is.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// ResolveConfig returns the LESSONKIT_* configuration when it validates,
// otherwise the first discovered vendor key.
func ResolveConfig() (Config, error) {
	cfg := ConfigFromEnv()
	err := cfg.Validate()
	if err == nil {
		return cfg, nil
	}
	if os.Getenv("LESSONKIT_LLM_PROVIDER") == "" {
		if found, ok := DiscoverConfig(); ok {
			return found, nil
		}
	}
	return Config{}, err
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case ProviderAnthropic:
		key = c.Anthropic.APIKey
	case ProviderOpenAI:
		key = c.OpenAI.APIKey
	case ProviderGemini:
		key = c.Gemini.APIKey
	case ProviderOpenRouter:
		key = c.OpenRouter.APIKey
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", envKey(c.Provider, "API_KEY"), c.Provider)
	}
	return nil
}
