// Package summarizer produces the structured incident summary that closes a
// completed broadcast run.
package summarizer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opsrelay/opsrelay/internal/jsonx"
	"github.com/opsrelay/opsrelay/model"
	"github.com/opsrelay/opsrelay/service/llm"
	"github.com/opsrelay/opsrelay/service/prompt"
	"github.com/opsrelay/opsrelay/tracing"
)

// InvalidSummaryError reports model output that could not be parsed into a
// summary. There is no repair loop on this path; the failure is fatal to the
// run.
type InvalidSummaryError struct {
	RawOutput string
	Err       error
}

// Error implements error.
func (e *InvalidSummaryError) Error() string {
	return fmt.Sprintf("summary produced invalid JSON: %v", e.Err)
}

// Unwrap exposes the underlying parse error.
func (e *InvalidSummaryError) Unwrap() error { return e.Err }

// Input carries everything the summary prompt needs.
type Input struct {
	TraceID         string
	Workflow        model.Workflow
	Records         []model.ExecutionRecord
	SafeUserRequest string
	Plan            *model.Plan
	Version         string
	UserID          string
}

// Service produces incident summaries.
type Service interface {
	Summarize(ctx context.Context, input *Input) (*model.Outcome, error)
}

type llmSummarizer struct {
	client llm.Client
	store  prompt.Store
}

// New creates the model-backed summarizer.
func New(client llm.Client, store prompt.Store) Service {
	return &llmSummarizer{client: client, store: store}
}

// Summarize renders the summary prompt with the sanitized request and the
// serialized execution records, calls the model with the summary schema, and
// assembles the completed outcome.
func (s *llmSummarizer) Summarize(ctx context.Context, input *Input) (*model.Outcome, error) {
	template, err := s.store.Prompt(ctx, input.Workflow, prompt.ModuleSummary, input.Version)
	if err != nil {
		return nil, err
	}
	schema, err := s.store.Schema(ctx, input.Workflow, prompt.ModuleSummary, input.Version)
	if err != nil {
		return nil, err
	}

	outcomes, err := json.Marshal(input.Records)
	if err != nil {
		return nil, fmt.Errorf("unserialisable execution records: %w", err)
	}
	rendered, err := prompt.Render(template, map[string]string{
		"user_request":       input.SafeUserRequest,
		"tool_outcomes_json": string(outcomes),
	})
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "llm.summarize", "CLIENT")
	span.WithAttributes(map[string]string{
		"trace_id": input.TraceID,
		"module":   prompt.ModuleSummary,
		"version":  input.Version,
	})
	response, err := s.client.Generate(ctx, &llm.GenerateInput{
		Prompt: rendered,
		Metadata: map[string]string{
			"trace_id": input.TraceID,
			"module":   prompt.ModuleSummary,
			"version":  input.Version,
		},
		SafetyIdentifier: input.UserID,
		Schema:           schema,
	})
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("summary call failed: %w", err)
	}

	summary, err := parseSummary(response.OutputText)
	if err != nil {
		return nil, err
	}
	return model.NewCompletedOutcome(input.TraceID, input.Plan, input.Records, summary), nil
}

func parseSummary(text string) (*model.Summary, error) {
	data, err := jsonx.ExtractObject(text)
	if err != nil {
		return nil, &InvalidSummaryError{RawOutput: text, Err: err}
	}
	var summary model.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, &InvalidSummaryError{RawOutput: text, Err: err}
	}
	if summary.IncidentTitle == "" {
		return nil, &InvalidSummaryError{RawOutput: text, Err: fmt.Errorf("missing incident_title")}
	}
	return &summary, nil
}
