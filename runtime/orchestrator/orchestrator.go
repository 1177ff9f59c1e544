// Package orchestrator coordinates the workflow pipeline: plan generation,
// policy evaluation, the approval gate, readiness validation, DAG execution
// and summarization, plus the repair-wrapped single-call notification flow.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opsrelay/opsrelay/internal/idgen"
	"github.com/opsrelay/opsrelay/internal/jsonx"
	"github.com/opsrelay/opsrelay/model"
	"github.com/opsrelay/opsrelay/policy"
	"github.com/opsrelay/opsrelay/runtime/harness"
	"github.com/opsrelay/opsrelay/runtime/plangen"
	"github.com/opsrelay/opsrelay/runtime/readiness"
	"github.com/opsrelay/opsrelay/runtime/repair"
	"github.com/opsrelay/opsrelay/runtime/summarizer"
	"github.com/opsrelay/opsrelay/service/approval"
	"github.com/opsrelay/opsrelay/service/llm"
	"github.com/opsrelay/opsrelay/service/prompt"
	"github.com/opsrelay/opsrelay/tracing"
)

// Error is the fatal orchestration failure surfaced to callers. Paused
// outcomes are never errors; everything unrecoverable becomes one of these.
type Error struct {
	Stage string
	Err   error
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("orchestration failed (%s): %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Harness runs validated tool calls.
type Harness interface {
	Run(ctx context.Context, call *harness.ToolCall) (map[string]interface{}, error)
}

// PlanExecutor runs a validated plan as a DAG.
type PlanExecutor interface {
	Execute(ctx context.Context, traceID string, plan *model.Plan, securityPolicy *policy.SecurityPolicy) ([]model.ExecutionRecord, error)
}

// Options configures retry budget and prompt versions.
type Options struct {
	MaxRetries          int
	NotificationVersion string
	PlanVersion         string
	SummaryVersion      string
}

// DefaultOptions is one retry and v1 prompts everywhere.
func DefaultOptions() Options {
	return Options{
		MaxRetries:          1,
		NotificationVersion: "v1",
		PlanVersion:         "v1",
		SummaryVersion:      "v1",
	}
}

// Service is the workflow orchestrator.
type Service struct {
	client     llm.Client
	prompts    prompt.Store
	harness    Harness
	generator  plangen.Service
	executor   PlanExecutor
	summarizer summarizer.Service
	gate       *approval.Gate
	repository approval.Repository
	engine     *policy.Engine
	options    Options
}

// New wires an orchestrator from its collaborators.
func New(client llm.Client, prompts prompt.Store, h Harness, generator plangen.Service,
	executor PlanExecutor, s summarizer.Service, gate *approval.Gate,
	repository approval.Repository, engine *policy.Engine, options Options) *Service {
	return &Service{
		client:     client,
		prompts:    prompts,
		harness:    h,
		generator:  generator,
		executor:   executor,
		summarizer: s,
		gate:       gate,
		repository: repository,
		engine:     engine,
		options:    options,
	}
}

// NotificationInput parameterises the single-call notification flow.
type NotificationInput struct {
	UserRequest string
	Version     string
	UserID      string
	Metadata    map[string]string
}

// RunNotificationRouter runs the single tool call flow end-to-end: render the
// notification prompt, generate a tool call, validate and execute it through
// the harness, repairing malformed output within the retry budget. No plan,
// policy or approval is involved.
func (s *Service) RunNotificationRouter(ctx context.Context, input *NotificationInput) (map[string]interface{}, error) {
	traceID := idgen.New()
	version := input.Version
	if version == "" {
		version = s.options.NotificationVersion
	}
	safeUserRequest := policy.SanitizeUserText(input.UserRequest)

	template, err := s.prompts.Prompt(ctx, model.WorkflowNotificationRouter, prompt.ModuleNotification, version)
	if err != nil {
		return nil, &Error{Stage: "prompt", Err: err}
	}
	schema, err := s.prompts.Schema(ctx, model.WorkflowNotificationRouter, prompt.ModuleNotification, version)
	if err != nil {
		return nil, &Error{Stage: "prompt", Err: err}
	}
	rendered, err := prompt.Render(template, map[string]string{"user_request": safeUserRequest})
	if err != nil {
		return nil, &Error{Stage: "prompt", Err: err}
	}

	ctx, span := tracing.StartSpan(ctx, "workflow.notification", "internal")
	span.WithAttributes(map[string]string{"trace_id": traceID})
	defer tracing.EndSpan(span, nil)

	loop := &repair.Loop[map[string]interface{}]{MaxRetries: s.options.MaxRetries}
	result, err := loop.Run(ctx, rendered, func(ctx context.Context, currentPrompt string, attempt int) (map[string]interface{}, string, error) {
		metadata := map[string]string{
			"trace_id":       traceID,
			"prompt_module":  prompt.ModuleNotification,
			"prompt_version": version,
			"attempt":        fmt.Sprintf("%d", attempt),
		}
		for k, v := range input.Metadata {
			metadata[k] = v
		}
		response, err := s.client.Generate(ctx, &llm.GenerateInput{
			Prompt:           currentPrompt,
			Metadata:         metadata,
			SafetyIdentifier: input.UserID,
			Schema:           schema,
		})
		if err != nil {
			return nil, "", err
		}
		call, err := parseToolCall(response.OutputText)
		if err != nil {
			return nil, response.OutputText, err
		}
		payload, err := s.harness.Run(ctx, call)
		if err != nil {
			return nil, response.OutputText, err
		}
		return payload, "", nil
	})
	if err != nil {
		return nil, &Error{Stage: "notification", Err: err}
	}
	return result, nil
}

// BroadcastInput parameterises the incident broadcast flow.
type BroadcastInput struct {
	UserRequest    string
	PlanVersion    string
	SummaryVersion string
	UserID         string
}

// RunIncidentBroadcast runs the multi-step workflow: sanitize, plan, policy,
// approval gate, readiness, DAG execution, summary. Gate pauses and readiness
// pauses are normal outcomes, not errors.
func (s *Service) RunIncidentBroadcast(ctx context.Context, input *BroadcastInput) (*model.Outcome, error) {
	traceID := idgen.New()
	planVersion := input.PlanVersion
	if planVersion == "" {
		planVersion = s.options.PlanVersion
	}
	securityPolicy := s.engine.ForWorkflow(model.WorkflowIncidentBroadcast, input.UserID)
	safeUserRequest := policy.SanitizeUserText(input.UserRequest)

	ctx, span := tracing.StartSpan(ctx, "workflow.incident_broadcast", "internal")
	span.WithAttributes(map[string]string{"trace_id": traceID})
	defer tracing.EndSpan(span, nil)

	plan, err := s.generator.Generate(ctx, &plangen.Input{
		TraceID:     traceID,
		Workflow:    model.WorkflowIncidentBroadcast,
		UserRequest: safeUserRequest,
		Version:     planVersion,
		UserID:      input.UserID,
	})
	if err != nil {
		return nil, &Error{Stage: "plan", Err: err}
	}

	gateResult, err := s.gate.Evaluate(ctx, traceID, model.WorkflowIncidentBroadcast,
		safeUserRequest, plan, securityPolicy, input.UserID)
	if err != nil {
		return nil, &Error{Stage: "policy", Err: err}
	}
	if !gateResult.Proceed {
		return gateResult.Outcome, nil
	}

	return s.finish(ctx, traceID, model.WorkflowIncidentBroadcast, plan, securityPolicy,
		safeUserRequest, input.UserID, input.SummaryVersion)
}

// ResumeApprovedWorkflow re-enters a paused run: load the approval, decide it
// APPROVED, reconstruct the plan snapshot and continue exactly as if the gate
// had passed, reusing the original trace id so logs correlate.
func (s *Service) ResumeApprovedWorkflow(ctx context.Context, approvalID, approvedBy string) (*model.Outcome, error) {
	request, err := s.repository.Get(ctx, approvalID)
	if err != nil {
		return nil, &Error{Stage: "approval", Err: err}
	}
	if request.Status != approval.StatusPending {
		return nil, &Error{Stage: "approval", Err: &approval.ConflictError{ID: approvalID, Status: request.Status}}
	}
	decided, err := s.repository.MarkApproved(ctx, approvalID, approvedBy)
	if err != nil {
		return nil, &Error{Stage: "approval", Err: err}
	}
	if decided.Plan == nil {
		return nil, &Error{Stage: "approval", Err: fmt.Errorf("approval %s carries no plan snapshot", approvalID)}
	}

	ctx, span := tracing.StartSpan(ctx, "workflow.resume", "internal")
	span.WithAttributes(map[string]string{"trace_id": decided.TraceID, "approval_id": approvalID})
	defer tracing.EndSpan(span, nil)

	securityPolicy := s.engine.ForWorkflow(decided.Workflow, decided.RequestedBy)
	return s.finish(ctx, decided.TraceID, decided.Workflow, decided.Plan, securityPolicy,
		decided.SafeUserRequest, decided.RequestedBy, "")
}

// finish is the shared execution tail: readiness, DAG execution, summary.
func (s *Service) finish(ctx context.Context, traceID string, workflow model.Workflow, plan *model.Plan,
	securityPolicy *policy.SecurityPolicy, safeUserRequest, userID, summaryVersion string) (*model.Outcome, error) {

	if decision := readiness.Evaluate(plan); !decision.Ready() {
		return model.NewAwaitingInputOutcome(decision.MissingFields, decision.Reason), nil
	}

	records, err := s.executor.Execute(ctx, traceID, plan, securityPolicy)
	if err != nil {
		return nil, &Error{Stage: "execute", Err: err}
	}

	if summaryVersion == "" {
		summaryVersion = s.options.SummaryVersion
	}
	outcome, err := s.summarizer.Summarize(ctx, &summarizer.Input{
		TraceID:         traceID,
		Workflow:        workflow,
		Records:         records,
		SafeUserRequest: safeUserRequest,
		Plan:            plan,
		Version:         summaryVersion,
		UserID:          userID,
	})
	if err != nil {
		return nil, &Error{Stage: "summary", Err: err}
	}
	return outcome, nil
}

func parseToolCall(text string) (*harness.ToolCall, error) {
	data, err := jsonx.ExtractObject(text)
	if err != nil {
		return nil, err
	}
	var call harness.ToolCall
	if err := json.Unmarshal(data, &call); err != nil {
		return nil, fmt.Errorf("invalid tool call envelope: %w", err)
	}
	return &call, nil
}
