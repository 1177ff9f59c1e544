// Package executor runs a validated plan as a deterministic DAG: parallel
// groups first, one group after another with concurrent steps inside, then
// the sequential tail in plan order.
package executor

import (
	"context"
	"strconv"
	"sync"

	"github.com/opsrelay/opsrelay/model"
	"github.com/opsrelay/opsrelay/policy"
	"github.com/opsrelay/opsrelay/runtime/harness"
	"github.com/opsrelay/opsrelay/tracing"
)

// Harness is the tool execution pipeline steps run through.
type Harness interface {
	Run(ctx context.Context, call *harness.ToolCall) (map[string]interface{}, error)
}

// Service executes plans. A failing tool call never aborts the DAG; only a
// policy violation does.
type Service struct {
	harness Harness
}

// New creates a plan executor over the given harness.
func New(h Harness) *Service {
	return &Service{harness: h}
}

type group struct {
	id    string
	steps []model.PlannedStep
}

// partition splits steps into parallel groups, in first-seen group order with
// input order preserved inside each group, and the sequential tail in plan
// order.
func partition(steps []model.PlannedStep) ([]group, []model.PlannedStep) {
	var groups []group
	index := map[string]int{}
	var sequential []model.PlannedStep
	for _, step := range steps {
		if step.ParallelGroup == "" {
			sequential = append(sequential, step)
			continue
		}
		at, seen := index[step.ParallelGroup]
		if !seen {
			at = len(groups)
			index[step.ParallelGroup] = at
			groups = append(groups, group{id: step.ParallelGroup})
		}
		groups[at].steps = append(groups[at].steps, step)
	}
	return groups, sequential
}

// Execute runs every plan step and returns one record per step in
// deterministic order: all group records first (groups in first-seen order,
// input order within each group), then the sequential tail. Tool failures
// become ok=false records; a policy violation aborts with an error.
func (s *Service) Execute(ctx context.Context, traceID string, plan *model.Plan, securityPolicy *policy.SecurityPolicy) ([]model.ExecutionRecord, error) {
	// Policy is enforced for the whole plan before any side effect runs, so
	// a violating step cannot abort a run halfway through a group.
	for _, step := range plan.Steps {
		if err := securityPolicy.AssertAllowed(step.Action); err != nil {
			return nil, err
		}
	}

	groups, sequential := partition(plan.Steps)
	records := make([]model.ExecutionRecord, 0, len(plan.Steps))

	for _, g := range groups {
		groupCtx, span := tracing.StartSpan(ctx, "dag.group."+g.id, "internal")
		span.WithAttributes(map[string]string{"trace_id": traceID, "size": strconv.Itoa(len(g.steps))})

		// Fan out, then reassemble into input order at the join: results land
		// at their step's index regardless of completion order.
		groupRecords := make([]model.ExecutionRecord, len(g.steps))
		var wg sync.WaitGroup
		for i, step := range g.steps {
			wg.Add(1)
			go func(i int, step model.PlannedStep) {
				defer wg.Done()
				groupRecords[i] = s.executeStep(groupCtx, step)
			}(i, step)
		}
		wg.Wait()
		tracing.EndSpan(span, nil)
		records = append(records, groupRecords...)
	}

	for _, step := range sequential {
		records = append(records, s.executeStep(ctx, step))
	}
	return records, nil
}

func (s *Service) executeStep(ctx context.Context, step model.PlannedStep) model.ExecutionRecord {
	call := &harness.ToolCall{
		Name:      string(step.Action),
		Arguments: sanitizeArgs(step),
	}
	result, err := s.harness.Run(ctx, call)
	if err != nil {
		return model.ExecutionRecord{
			Action:        step.Action,
			OK:            false,
			Result:        map[string]interface{}{"ok": false, "error": err.Error()},
			ParallelGroup: step.ParallelGroup,
		}
	}
	ok, _ := result["ok"].(bool)
	return model.ExecutionRecord{
		Action:        step.Action,
		OK:            ok,
		Result:        result,
		ParallelGroup: step.ParallelGroup,
	}
}

// sanitizeArgs applies outbound message sanitization for known tools without
// mutating the plan step.
func sanitizeArgs(step model.PlannedStep) map[string]interface{} {
	args := make(map[string]interface{}, len(step.Arguments))
	for k, v := range step.Arguments {
		args[k] = v
	}
	sanitizeField := func(field string) {
		if value, ok := args[field].(string); ok {
			args[field] = policy.SanitizeMessage(value)
		}
	}
	switch step.Action {
	case model.ActionSendSlackMessage:
		sanitizeField("text")
	case model.ActionSendEmail:
		sanitizeField("subject")
		sanitizeField("body")
	}
	return args
}
