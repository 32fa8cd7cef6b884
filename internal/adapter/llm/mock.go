package llm

import (
	"context"
	"errors"
	"sync"

	"quizforge/internal/domain"
)

// MockResponse is a canned reply of the MockCompleter.
type MockResponse struct {
	Content string
	Err     error
}

// MockCompleter returns canned responses in FIFO order and records every
// request. It backs tests and the "mock" provider.
type MockCompleter struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []domain.CompletionRequest
	// Fallback is returned once the queue is drained, when non-nil.
	Fallback *MockResponse
}

func NewMockCompleter(responses ...MockResponse) *MockCompleter {
	return &MockCompleter{responses: responses}
}

func (m *MockCompleter) Complete(_ context.Context, req domain.CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	var resp MockResponse
	switch {
	case len(m.responses) > 0:
		resp = m.responses[0]
		m.responses = m.responses[1:]
	case m.Fallback != nil:
		resp = *m.Fallback
	default:
		return "", &domain.ProviderError{Provider: "mock", Err: errors.New("no canned response left")}
	}
	if resp.Err != nil {
		return "", resp.Err
	}
	return resp.Content, nil
}

func (m *MockCompleter) Name() string { return "mock" }

func (m *MockCompleter) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
