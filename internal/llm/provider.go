// Package llm talks to hosted language models on behalf of lesson
// generation. Every provider returns lesson JSON checked against the
// requested schema, and classifies failures as *Error.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured output from a prompt.
type Provider interface {
	// Generate sends req and returns output that already satisfies
	// req.Schema when one is set.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name is the provider label, such as "anthropic" or "mock".
	Name() string

	// ModelID is the model requests are sent to.
	ModelID() string
}

// Request is one exchange with the model.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, is enforced through the provider's structured
	// output mode and checked again on the returned text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message is one turn of the conversation. Lesson repair replays the
// rejected draft as an assistant turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the sender of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for the expected output.
type Schema struct {
	// Name keys the compiled-schema cache and appears in SchemaError.
	Name        string
	Description string
	Definition  map[string]any

	// Strict turns on OpenAI strict decoding. It rejects oneOf, so the
	// lesson schema leaves it off.
	Strict bool
}

// StopReason is why the model stopped producing output.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is a successful generation.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Add returns the sum of u and o.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + o.InputTokens,
		OutputTokens: u.OutputTokens + o.OutputTokens,
		TotalTokens:  u.TotalTokens + o.TotalTokens,
	}
}

// finish applies the checks every provider runs on raw output: truncation
// first, then the schema.
func finish(name string, req Request, content json.RawMessage, stop StopReason) error {
	if stop == StopMaxTokens {
		return &Error{Kind: KindTruncated, Provider: name, Output: content}
	}
	return validateOutput(name, req.Schema, content)
}
