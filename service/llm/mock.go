package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockClient is a deterministic Client for tests and offline development.
// Outputs are served from a script: either a fixed payload, a queue of
// payloads consumed one per call, or a function of the request.
type MockClient struct {
	mu      sync.Mutex
	fn      func(input *GenerateInput) (string, error)
	queue   []string
	output  string
	prompts []string
}

// NewMockClient returns a client that always answers with the JSON encoding
// of payload.
func NewMockClient(payload interface{}) *MockClient {
	data, _ := json.Marshal(payload)
	return &MockClient{output: string(data)}
}

// NewScriptedClient returns a client that answers with each output text in
// turn and fails when the script is exhausted.
func NewScriptedClient(outputs ...string) *MockClient {
	return &MockClient{queue: outputs}
}

// NewFuncClient returns a client backed by fn.
func NewFuncClient(fn func(input *GenerateInput) (string, error)) *MockClient {
	return &MockClient{fn: fn}
}

// Generate implements Client.
func (c *MockClient) Generate(ctx context.Context, input *GenerateInput) (*GenerateOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, input.Prompt)

	var text string
	switch {
	case c.fn != nil:
		out, err := c.fn(input)
		if err != nil {
			return nil, err
		}
		text = out
	case c.queue != nil:
		if len(c.prompts) > len(c.queue) {
			return nil, fmt.Errorf("scripted client exhausted after %d calls", len(c.queue))
		}
		text = c.queue[len(c.prompts)-1]
	default:
		text = c.output
	}
	return &GenerateOutput{
		OutputText: text,
		Raw:        map[string]interface{}{"mock": true},
		Usage:      Usage{InputTokens: len(input.Prompt) / 4, OutputTokens: len(text) / 4, TotalTokens: (len(input.Prompt) + len(text)) / 4},
	}, nil
}

// Prompts returns every prompt received so far, in call order.
func (c *MockClient) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.prompts))
	copy(out, c.prompts)
	return out
}

// Calls returns the number of Generate invocations.
func (c *MockClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

var _ Client = (*MockClient)(nil)
