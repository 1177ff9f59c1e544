// Package llm defines the narrow model-client contract the orchestration
// layer depends on, plus adapters for concrete text-generation backends.
package llm

import "context"

// GenerateInput carries one rendered prompt to the backend.
type GenerateInput struct {
	// Prompt is the fully rendered prompt text.
	Prompt string

	// Metadata is attached to the request for observability; backends may
	// forward it or drop it.
	Metadata map[string]string

	// SafetyIdentifier optionally identifies the end user on whose behalf the
	// request is made.
	SafetyIdentifier string

	// Schema, when non-nil, requests schema-constrained JSON generation.
	Schema map[string]interface{}
}

// Usage is best-effort token accounting reported by the backend. Zero values
// mean "unknown".
type Usage struct {
	InputTokens  int `json:"inputTokens,omitempty"`
	OutputTokens int `json:"outputTokens,omitempty"`
	TotalTokens  int `json:"totalTokens,omitempty"`
}

// GenerateOutput is the backend's response.
type GenerateOutput struct {
	// OutputText is the generated text.
	OutputText string

	// Raw is the backend-specific payload, kept for diagnostics.
	Raw map[string]interface{}

	// Usage is best-effort token usage.
	Usage Usage
}

// Client generates text. Implementations must honour ctx cancellation; model
// calls are the long pole of every workflow and always run under a deadline.
type Client interface {
	Generate(ctx context.Context, input *GenerateInput) (*GenerateOutput, error)
}
