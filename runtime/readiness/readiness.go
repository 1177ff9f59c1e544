// Package readiness decides whether a plan carries every argument field its
// actions require, before any execution is attempted.
package readiness

import "github.com/opsrelay/opsrelay/model"

// Outcomes of a readiness evaluation.
const (
	OutcomeReady      = "READY"
	OutcomeNeedsInput = "NEEDS_INPUT"
)

// NeedsInputReason is the fixed reason attached to every NEEDS_INPUT decision.
const NeedsInputReason = "One or more steps are missing required inputs"

// Decision is the result of evaluating a plan's readiness.
type Decision struct {
	Outcome       string
	MissingFields map[model.Action][]string
	Reason        string
}

// Ready reports whether the plan may execute.
func (d *Decision) Ready() bool { return d.Outcome == OutcomeReady }

// Evaluate checks every step against its action's required-field contract.
// The decision is NEEDS_INPUT iff at least one step misses at least one
// required field; missing fields accumulate per action across steps.
func Evaluate(plan *model.Plan) *Decision {
	missing := map[model.Action][]string{}
	for _, step := range plan.Steps {
		for _, field := range step.Action.RequiredFields() {
			if _, ok := step.Arguments[field]; !ok {
				missing[step.Action] = append(missing[step.Action], field)
			}
		}
	}
	if len(missing) > 0 {
		return &Decision{Outcome: OutcomeNeedsInput, MissingFields: missing, Reason: NeedsInputReason}
	}
	return &Decision{Outcome: OutcomeReady}
}
