package model

import "fmt"

// Workflow enumerates the supported orchestration workflows. Policy rules are
// keyed by Workflow rather than free-form strings so that a typo cannot
// silently resolve to the deny-all default.
type Workflow string

const (
	WorkflowNotificationRouter Workflow = "notification_router"
	WorkflowIncidentBroadcast  Workflow = "incident_broadcast"
)

// ParseWorkflow validates a wire-level workflow name.
func ParseWorkflow(name string) (Workflow, error) {
	switch w := Workflow(name); w {
	case WorkflowNotificationRouter, WorkflowIncidentBroadcast:
		return w, nil
	}
	return "", fmt.Errorf("unknown workflow %q", name)
}

// String implements fmt.Stringer.
func (w Workflow) String() string { return string(w) }
