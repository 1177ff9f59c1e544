package model

import (
	"encoding/json"
	"fmt"
)

// IntentIncidentBroadcast is the only intent tag the planner may emit.
const IntentIncidentBroadcast = "incident_broadcast"

// PlannedStep is a single planned tool invocation. Steps sharing a non-empty
// ParallelGroup run concurrently with each other; an empty group places the
// step in the sequential tail, executed in plan order.
type PlannedStep struct {
	Action        Action                 `json:"name" yaml:"name"`
	Arguments     map[string]interface{} `json:"arguments" yaml:"arguments"`
	ParallelGroup string                 `json:"parallel_group,omitempty" yaml:"parallel_group,omitempty"`
}

// Plan is a validated, ordered sequence of planned steps produced by the
// planner model. Step order is preserved for sequential steps and within each
// parallel group.
type Plan struct {
	Intent string        `json:"intent" yaml:"intent"`
	Steps  []PlannedStep `json:"steps" yaml:"steps"`
}

// Actions returns the action of every step, in plan order. Repeated actions
// appear once per occurrence.
func (p *Plan) Actions() []Action {
	out := make([]Action, len(p.Steps))
	for i := range p.Steps {
		out[i] = p.Steps[i].Action
	}
	return out
}

// wire shapes accepted from the planner model. The planner may emit either the
// normalized {intent, steps} object or the grouped {plan: [...]} object;
// anything else is rejected.
type wirePlan struct {
	Intent string      `json:"intent"`
	Steps  []wireStep  `json:"steps"`
	Plan   []wireGroup `json:"plan"`
}

type wireStep struct {
	Name          string                 `json:"name"`
	Tool          string                 `json:"tool"`
	Arguments     map[string]interface{} `json:"arguments"`
	Parameters    map[string]interface{} `json:"parameters"`
	ParallelGroup string                 `json:"parallel_group"`
}

type wireGroup struct {
	ParallelGroup string     `json:"parallel_group"`
	Steps         []wireStep `json:"steps"`
}

// ParsePlan decodes a planner output object into a Plan. Two wire shapes are
// accepted: the normalized {intent, steps} form and the grouped
// {plan: [{parallel_group, steps: [{tool, parameters}]}]} form, which is
// flattened into steps carrying their group's label.
func ParsePlan(data []byte) (*Plan, error) {
	var wire wirePlan
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("invalid plan JSON: %w", err)
	}

	switch {
	case len(wire.Plan) > 0:
		return flattenGrouped(wire.Plan)
	case wire.Steps != nil:
		return normalizePlan(&wire)
	}
	return nil, fmt.Errorf("unrecognized plan shape: expected \"steps\" or \"plan\" key")
}

func normalizePlan(wire *wirePlan) (*Plan, error) {
	intent := wire.Intent
	if intent == "" {
		intent = IntentIncidentBroadcast
	}
	if intent != IntentIncidentBroadcast {
		return nil, fmt.Errorf("unsupported plan intent %q", intent)
	}
	plan := &Plan{Intent: intent, Steps: make([]PlannedStep, 0, len(wire.Steps))}
	for i := range wire.Steps {
		step, err := normalizeStep(&wire.Steps[i], wire.Steps[i].ParallelGroup)
		if err != nil {
			return nil, fmt.Errorf("step[%d]: %w", i, err)
		}
		plan.Steps = append(plan.Steps, *step)
	}
	return plan, nil
}

func flattenGrouped(groups []wireGroup) (*Plan, error) {
	plan := &Plan{Intent: IntentIncidentBroadcast}
	for g := range groups {
		for i := range groups[g].Steps {
			step, err := normalizeStep(&groups[g].Steps[i], groups[g].ParallelGroup)
			if err != nil {
				return nil, fmt.Errorf("plan[%d].steps[%d]: %w", g, i, err)
			}
			plan.Steps = append(plan.Steps, *step)
		}
	}
	return plan, nil
}

func normalizeStep(wire *wireStep, group string) (*PlannedStep, error) {
	name := wire.Name
	if name == "" {
		name = wire.Tool
	}
	action, err := ParseAction(name)
	if err != nil {
		return nil, err
	}
	args := wire.Arguments
	if args == nil {
		args = wire.Parameters
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return &PlannedStep{Action: action, Arguments: args, ParallelGroup: group}, nil
}
