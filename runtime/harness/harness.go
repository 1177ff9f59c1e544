// Package harness runs a single tool call as a controlled pipeline: validate
// the call envelope, validate the arguments against the action's contract,
// execute through the gateway, then validate the result envelope.
package harness

import (
	"context"
	"fmt"

	"github.com/opsrelay/opsrelay/model"
	"github.com/opsrelay/opsrelay/service/tool"
	"github.com/opsrelay/opsrelay/tracing"
)

// ToolCall is the envelope a model emits for a single tool invocation.
type ToolCall struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ToolExecutionError wraps any failure on the tool path: an invalid envelope,
// invalid arguments, a gateway failure, or an invalid result payload.
type ToolExecutionError struct {
	Stage string
	Err   error
}

// Error implements error.
func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool execution failed (%s): %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ToolExecutionError) Unwrap() error { return e.Err }

// Service validates and executes tool calls.
type Service struct {
	gateway tool.Gateway
}

// New creates a harness over the given gateway.
func New(gateway tool.Gateway) *Service {
	return &Service{gateway: gateway}
}

// Run validates the tool call and executes it, returning the tool's result
// payload. All failures surface as *ToolExecutionError.
func (s *Service) Run(ctx context.Context, call *ToolCall) (map[string]interface{}, error) {
	action, err := s.validate(call)
	if err != nil {
		return nil, &ToolExecutionError{Stage: "validate", Err: err}
	}

	ctx, span := tracing.StartSpan(ctx, "tool."+call.Name, "internal")
	result, err := s.gateway.Execute(ctx, action, call.Arguments)
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, &ToolExecutionError{Stage: "execute", Err: err}
	}

	if err := validateResult(result); err != nil {
		return nil, &ToolExecutionError{Stage: "result", Err: err}
	}
	return result, nil
}

func (s *Service) validate(call *ToolCall) (model.Action, error) {
	if call == nil || call.Name == "" {
		return "", fmt.Errorf("tool call must carry a name")
	}
	action, err := model.ParseAction(call.Name)
	if err != nil {
		return "", err
	}
	if call.Arguments == nil {
		return "", fmt.Errorf("tool call %q must carry arguments", call.Name)
	}
	if err := tool.ValidateArgs(action, call.Arguments); err != nil {
		return "", err
	}
	return action, nil
}

// validateResult enforces the {ok: bool, ...} result envelope every tool
// returns.
func validateResult(result map[string]interface{}) error {
	if result == nil {
		return fmt.Errorf("tool returned no result payload")
	}
	ok, present := result["ok"]
	if !present {
		return fmt.Errorf(`tool result missing "ok" field`)
	}
	if _, isBool := ok.(bool); !isBool {
		return fmt.Errorf(`tool result "ok" field must be a boolean`)
	}
	return nil
}
