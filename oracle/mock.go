package oracle

import (
	"context"
	"fmt"
	"sync"
)

// Mock is a lightweight in-memory Oracle useful for tests and examples.
// Responses can be scripted two ways: Enqueue pushes exact responses returned
// in FIFO order, AddResponse registers a canned completion keyed by the last
// message's content. Enqueued turns win over canned ones.
type Mock struct {
	mu        sync.Mutex
	info      Info
	queue     []mockTurn
	responses map[string]string
	requests  []Request
}

type mockTurn struct {
	resp *Response
	err  error
}

// NewMock constructs a Mock with basic tool support enabled.
func NewMock(name string) *Mock {
	return &Mock{
		info: Info{
			Name:          name,
			Provider:      "mock",
			SupportsTools: true,
		},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *Mock) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Enqueue appends a scripted response returned by the next Generate call.
func (m *Mock) Enqueue(resp *Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockTurn{resp: resp})
}

// EnqueueError appends a scripted failure returned by the next Generate call.
func (m *Mock) EnqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockTurn{err: err})
}

// Requests returns a copy of all requests seen so far, in call order.
func (m *Mock) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Generate implements Oracle.
func (m *Mock) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	if len(m.queue) > 0 {
		turn := m.queue[0]
		m.queue = m.queue[1:]
		if turn.err != nil {
			return nil, turn.err
		}
		resp := *turn.resp
		if resp.Model == "" {
			resp.Model = m.info.Name
		}
		return &resp, nil
	}

	prompt := lastContent(req.Messages)
	text, ok := m.responses[prompt]
	if !ok {
		text = fmt.Sprintf("Mock response to: %s", prompt)
	}

	return &Response{
		Text:         text,
		InputTokens:  approxTokens(prompt),
		OutputTokens: approxTokens(text),
		Model:        m.info.Name,
	}, nil
}

// Info implements Oracle.
func (m *Mock) Info() Info { return m.info }

func lastContent(messages []Message) string {
	if len(messages) == 0 {
		return ""
	}
	return messages[len(messages)-1].Content
}

// approxTokens estimates a token count at roughly four characters per token,
// keeping mock usage reports deterministic.
func approxTokens(s string) int {
	return len(s)/4 + 1
}
