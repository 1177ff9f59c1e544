// Package repair implements the bounded re-prompt cycle used when model
// output fails validation on the single-call notification flow.
package repair

import (
	"context"
	"fmt"
)

// BuildPrompt constructs the re-prompt for one failed attempt. It embeds the
// validation error, the model's invalid raw output and the original prompt
// contract, and instructs the model to return exactly one corrected JSON
// object. Attempt is zero-based; the produced string is immutable per attempt.
func BuildPrompt(originalPrompt, invalidOutput, errorMessage string, attempt, maxRetries int) string {
	return fmt.Sprintf(`You previously produced an invalid tool call JSON.

ERROR:
%s

INVALID OUTPUT (RAW TEXT):
%s

ATTEMPTS:
This is repair attempt #%d of %d.

INSTRUCTIONS:
- Return ONLY ONE valid JSON object with keys: "name" and "arguments"
- Do not include any additional keys
- Do not include prose
- Choose "request_missing_info" if required fields are missing
- Do NOT change the intent or tool choice unless required to fix the error.

ORIGINAL PROMPT:
%s`, errorMessage, invalidOutput, attempt+1, maxRetries, originalPrompt)
}

// Attempt runs one try. It receives the prompt to use and the zero-based
// attempt index, and returns the successful result or the model's raw output
// together with the failure.
type Attempt[T any] func(ctx context.Context, prompt string, attempt int) (T, string, error)

// Loop is a bounded sequential retry cycle. MaxRetries is the retry budget on
// top of the first attempt, so a loop runs at most MaxRetries+1 attempts.
type Loop[T any] struct {
	MaxRetries int
}

// Run executes attempts strictly one after another until one succeeds or the
// budget is exhausted, rebuilding the prompt from the latest failure between
// attempts. The last failure is returned when the budget runs out.
func (l *Loop[T]) Run(ctx context.Context, originalPrompt string, attempt Attempt[T]) (T, error) {
	var zero T
	currentPrompt := originalPrompt
	var lastErr error
	for i := 0; i <= l.MaxRetries; i++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		result, rawOutput, err := attempt(ctx, currentPrompt, i)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i >= l.MaxRetries {
			break
		}
		currentPrompt = BuildPrompt(originalPrompt, rawOutput, err.Error(), i, l.MaxRetries)
	}
	return zero, fmt.Errorf("orchestration failed after retries: %w", lastErr)
}
