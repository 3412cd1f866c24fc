package ai

import (
	"context"
	"sync"
)

// MockResult scripts one call outcome for a MockProvider.
type MockResult struct {
	Content string
	Err     error
}

// MockProvider is a test double for Provider. With a Script set, calls pop
// results in order; afterwards (or without one) every call returns
// Response/Err. Requests records every request for inspection.
type MockProvider struct {
	Response string
	Err      error
	Script   []MockResult

	mu       sync.Mutex
	Requests []CompletionRequest
}

// NewMockProvider creates a MockProvider that always returns response.
func NewMockProvider(response string) *MockProvider {
	return &MockProvider{Response: response}
}

func (m *MockProvider) Complete(_ context.Context, req CompletionRequest) (CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)

	content, err := m.Response, m.Err
	if len(m.Script) > 0 {
		next := m.Script[0]
		m.Script = m.Script[1:]
		content, err = next.Content, next.Err
	}
	if err != nil {
		return CompletionResponse{}, err
	}
	return CompletionResponse{
		Content:      content,
		Model:        req.Model,
		InputTokens:  10,
		OutputTokens: len(content),
	}, nil
}

// LastRequest returns the most recent request, if any.
func (m *MockProvider) LastRequest() *CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return nil
	}
	req := m.Requests[len(m.Requests)-1]
	return &req
}
