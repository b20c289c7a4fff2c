package extract

import (
	"context"

	"github.com/agenthands/refinery/internal/llm"
)

// MockClient records every completion request and replays canned
// responses and errors by call index. Calls beyond the configured error
// queue succeed; calls beyond the response queue repeat the last response.
type MockClient struct {
	Responses []string
	Errs      []error
	Requests  []llm.Request
}

func (m *MockClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	i := len(m.Requests)
	m.Requests = append(m.Requests, req)

	if i < len(m.Errs) && m.Errs[i] != nil {
		return "", m.Errs[i]
	}

	if len(m.Responses) == 0 {
		return "", nil
	}
	if i >= len(m.Responses) {
		i = len(m.Responses) - 1
	}
	return m.Responses[i], nil
}
