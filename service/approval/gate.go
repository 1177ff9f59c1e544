package approval

import (
	"context"
	"fmt"

	"github.com/opsrelay/opsrelay/model"
	"github.com/opsrelay/opsrelay/policy"
)

// GateResult is the approval gate's verdict. When Proceed is false, Outcome
// carries the paused approval_required payload that becomes the run's
// terminal output for this invocation.
type GateResult struct {
	Proceed bool
	Outcome *model.Outcome
}

// Gate evaluates policy decisions for a plan and pauses the run when any
// planned action requires human approval.
type Gate struct {
	repository Repository
}

// NewGate creates a gate backed by the given repository.
func NewGate(repository Repository) *Gate {
	return &Gate{repository: repository}
}

// Evaluate applies the workflow policy to every planned action. A DENY
// aborts the run with an error. With no approval-required decisions the gate
// passes through; otherwise it persists exactly one PENDING request carrying
// the plan snapshot and returns the paused outcome.
func (g *Gate) Evaluate(ctx context.Context, traceID string, workflow model.Workflow, safeUserRequest string,
	plan *model.Plan, securityPolicy *policy.SecurityPolicy, userID string) (*GateResult, error) {

	decisions := policy.EvaluatePlan(securityPolicy, plan.Actions())

	var needApproval []policy.Decision
	for _, decision := range decisions {
		switch decision.Outcome {
		case policy.OutcomeDeny:
			return nil, fmt.Errorf("policy denied plan: %s", decision.Reason)
		case policy.OutcomeRequireApproval:
			needApproval = append(needApproval, decision)
		}
	}
	if len(needApproval) == 0 {
		return &GateResult{Proceed: true}, nil
	}

	actions := make([]model.Action, len(needApproval))
	for i, decision := range needApproval {
		actions[i] = decision.Action
	}

	id, err := g.repository.CreatePending(ctx, &Request{
		TraceID:         traceID,
		Workflow:        workflow,
		Actions:         actions,
		SafeUserRequest: safeUserRequest,
		Plan:            plan,
		Reason:          "One or more actions require approval.",
		RequestedBy:     userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist approval request: %w", err)
	}

	return &GateResult{
		Proceed: false,
		Outcome: model.NewApprovalRequiredOutcome(id, actions),
	}, nil
}
