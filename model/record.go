package model

// ExecutionRecord captures the outcome of one executed plan step. Records are
// produced in the same relative order as the input plan: all group records
// first (groups in first-seen order, input order within a group), then the
// sequential tail in plan order.
type ExecutionRecord struct {
	Action        Action                 `json:"name"`
	OK            bool                   `json:"ok"`
	Result        map[string]interface{} `json:"result"`
	ParallelGroup string                 `json:"parallel_group,omitempty"`
}

// Summary is the structured incident summary produced by the summarizer model.
type Summary struct {
	IncidentTitle string   `json:"incident_title"`
	ActionsTaken  []string `json:"actions_taken"`
	ToolOutcomes  []string `json:"tool_outcomes"`
	NextSteps     []string `json:"next_steps"`
}

// Outcome statuses.
const (
	StatusApprovalRequired  = "approval_required"
	StatusAwaitingUserInput = "awaiting_user_input"
	StatusCompleted         = "completed"
)

// Outcome is the terminal payload of an orchestration run. Exactly one of the
// three shapes is populated, discriminated by Status.
type Outcome struct {
	Status string `json:"status"`

	// approval_required
	ApprovalID string   `json:"approval_id,omitempty"`
	Actions    []Action `json:"actions,omitempty"`

	// awaiting_user_input
	MissingFields map[Action][]string `json:"missing_fields,omitempty"`
	Reason        string              `json:"reason,omitempty"`

	// completed
	TraceID string            `json:"trace_id,omitempty"`
	Plan    *Plan             `json:"plan,omitempty"`
	Records []ExecutionRecord `json:"tool_execution_records,omitempty"`
	Summary *Summary          `json:"summary,omitempty"`
}

// NewApprovalRequiredOutcome returns the paused outcome emitted when one or
// more planned actions require a human decision.
func NewApprovalRequiredOutcome(approvalID string, actions []Action) *Outcome {
	return &Outcome{Status: StatusApprovalRequired, ApprovalID: approvalID, Actions: actions}
}

// NewAwaitingInputOutcome returns the paused outcome emitted when the plan is
// missing required step arguments.
func NewAwaitingInputOutcome(missing map[Action][]string, reason string) *Outcome {
	return &Outcome{Status: StatusAwaitingUserInput, MissingFields: missing, Reason: reason}
}

// NewCompletedOutcome returns the terminal outcome of a fully executed run.
func NewCompletedOutcome(traceID string, plan *Plan, records []ExecutionRecord, summary *Summary) *Outcome {
	return &Outcome{Status: StatusCompleted, TraceID: traceID, Plan: plan, Records: records, Summary: summary}
}
