package llm

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errMockExhausted = errors.New("mock: no canned responses left")

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Text  string
	Usage Usage
	Err   error

	// Delay holds the response back; the call honours ctx while waiting.
	Delay time.Duration
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	id string

	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider registered under id with the given
// canned responses.
func NewMockProvider(id string, responses ...MockResponse) *MockProvider {
	return &MockProvider{id: id, responses: responses}
}

// Generate returns the next canned response or ErrServer if the queue is
// empty.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		m.mu.Unlock()
		return nil, &ErrServer{Err: errMockExhausted}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]
	m.mu.Unlock()

	if resp.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, &ErrServer{Err: ctx.Err()}
		case <-time.After(resp.Delay):
		}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}
	if resp.Text == "" {
		return nil, &ErrEmptyResponse{Provider: m.id}
	}

	model := req.Model
	if model == "" {
		model = "mock"
	}

	return &Response{
		Text:       resp.Text,
		Usage:      resp.Usage,
		Model:      model,
		StopReason: "end",
	}, nil
}

// ID returns the identifier the mock was registered under.
func (m *MockProvider) ID() string {
	if m.id == "" {
		return "mock"
	}
	return m.id
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// CallsSnapshot returns a copy of the recorded requests.
func (m *MockProvider) CallsSnapshot() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.Calls))
	copy(out, m.Calls)
	return out
}
