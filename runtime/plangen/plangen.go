// Package plangen turns a sanitized user request into a validated incident
// plan through a schema-constrained model call.
package plangen

import (
	"context"
	"fmt"
	"strconv"

	"github.com/opsrelay/opsrelay/internal/jsonx"
	"github.com/opsrelay/opsrelay/model"
	"github.com/opsrelay/opsrelay/service/llm"
	"github.com/opsrelay/opsrelay/service/prompt"
	"github.com/opsrelay/opsrelay/tracing"
)

// InvalidPlanError reports model output that could not be parsed into a plan.
// RawOutput carries the model's verbatim text for diagnostics and repair.
type InvalidPlanError struct {
	RawOutput string
	Err       error
}

// Error implements error.
func (e *InvalidPlanError) Error() string {
	return fmt.Sprintf("model produced an invalid plan: %v", e.Err)
}

// Unwrap exposes the underlying parse error.
func (e *InvalidPlanError) Unwrap() error { return e.Err }

// Input identifies one plan generation request.
type Input struct {
	TraceID     string
	Workflow    model.Workflow
	UserRequest string
	Version     string
	UserID      string
}

// Service generates incident plans.
type Service interface {
	Generate(ctx context.Context, input *Input) (*model.Plan, error)
}

type llmGenerator struct {
	client llm.Client
	store  prompt.Store
}

// New creates the model-backed plan generator.
func New(client llm.Client, store prompt.Store) Service {
	return &llmGenerator{client: client, store: store}
}

// Generate implements Service. Model output must parse as one of the two
// supported plan wire shapes; anything else yields *InvalidPlanError.
func (g *llmGenerator) Generate(ctx context.Context, input *Input) (*model.Plan, error) {
	template, err := g.store.Prompt(ctx, input.Workflow, prompt.ModuleIncidentPlan, input.Version)
	if err != nil {
		return nil, err
	}
	schema, err := g.store.Schema(ctx, input.Workflow, prompt.ModuleIncidentPlan, input.Version)
	if err != nil {
		return nil, err
	}
	rendered, err := prompt.Render(template, map[string]string{"user_request": input.UserRequest})
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "llm.plan", "CLIENT")
	span.WithAttributes(map[string]string{
		"trace_id": input.TraceID,
		"workflow": string(input.Workflow),
		"module":   prompt.ModuleIncidentPlan,
		"version":  input.Version,
	})
	response, err := g.client.Generate(ctx, &llm.GenerateInput{
		Prompt: rendered,
		Metadata: map[string]string{
			"trace_id":       input.TraceID,
			"prompt_module":  prompt.ModuleIncidentPlan,
			"prompt_version": input.Version,
		},
		SafetyIdentifier: input.UserID,
		Schema:           schema,
	})
	if err != nil {
		tracing.EndSpan(span, err)
		return nil, fmt.Errorf("plan generation call failed: %w", err)
	}
	span.WithAttributes(map[string]string{
		"usage.total_tokens": strconv.Itoa(response.Usage.TotalTokens),
	})
	tracing.EndSpan(span, nil)

	data, err := jsonx.ExtractObject(response.OutputText)
	if err != nil {
		return nil, &InvalidPlanError{RawOutput: response.OutputText, Err: err}
	}
	plan, err := model.ParsePlan(data)
	if err != nil {
		return nil, &InvalidPlanError{RawOutput: response.OutputText, Err: err}
	}
	return plan, nil
}
