package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockResponse is one scripted reply.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Model   string // "mock" when empty
	Err     error
}

// MockProvider replays scripted replies in order and records every
// request. Replies are checked against the request schema like a real
// provider's, so a scripted draft that breaks the lesson schema fails
// with KindInvalidOutput.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse
	Calls  []Request
}

// NewMockProvider creates a MockProvider that replies with script.
func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) Name() string    { return ProviderMock }
func (m *MockProvider) ModelID() string { return "mock" }

// Generate returns the next scripted reply. An exhausted script fails as
// an unavailable provider.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.script) == 0 {
		return nil, &Error{Kind: KindUnavailable, Provider: ProviderMock, Err: errors.New("script exhausted")}
	}
	next := m.script[0]
	m.script = m.script[1:]

	if next.Err != nil {
		return nil, next.Err
	}
	if err := finish(ProviderMock, req, next.Content, StopEnd); err != nil {
		return nil, err
	}

	model := next.Model
	if model == "" {
		model = "mock"
	}
	return &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      model,
		StopReason: StopEnd,
	}, nil
}

// AddResponse appends a reply to the script.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
