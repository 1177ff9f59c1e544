package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// LangchainClient adapts a langchaingo llms.Model to the Client contract.
// When an output schema is supplied the request runs in JSON mode and the
// schema is appended to the prompt as an output contract - langchaingo does
// not expose schema-constrained decoding directly.
type LangchainClient struct {
	model llms.Model
}

// NewLangchainClient creates a client backed by any langchaingo model
// (openai, anthropic, ollama, ...).
func NewLangchainClient(model llms.Model) *LangchainClient {
	return &LangchainClient{model: model}
}

// Generate implements Client.
func (c *LangchainClient) Generate(ctx context.Context, input *GenerateInput) (*GenerateOutput, error) {
	prompt := input.Prompt
	options := []llms.CallOption{}
	if input.Schema != nil {
		schema, err := json.Marshal(input.Schema)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal output schema: %w", err)
		}
		prompt = fmt.Sprintf("%s\n\nReturn a single JSON object conforming to this JSON schema:\n%s", prompt, schema)
		options = append(options, llms.WithJSONMode())
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	resp, err := c.model.GenerateContent(ctx, content, options...)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}
	choice := resp.Choices[0]
	return &GenerateOutput{
		OutputText: choice.Content,
		Raw:        map[string]interface{}{"generationInfo": choice.GenerationInfo},
		Usage:      usageFromGenerationInfo(choice.GenerationInfo),
	}, nil
}

// usageFromGenerationInfo normalises backend-specific usage metadata. Key
// names differ per provider, so every known spelling is probed and unknown
// ones are simply left at zero.
func usageFromGenerationInfo(info map[string]interface{}) Usage {
	var usage Usage
	usage.InputTokens = intValue(info, "PromptTokens", "prompt_tokens", "input_tokens")
	usage.OutputTokens = intValue(info, "CompletionTokens", "completion_tokens", "output_tokens")
	usage.TotalTokens = intValue(info, "TotalTokens", "total_tokens")
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return usage
}

func intValue(info map[string]interface{}, keys ...string) int {
	for _, key := range keys {
		switch v := info[key].(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}

var _ Client = (*LangchainClient)(nil)
