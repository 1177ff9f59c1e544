package model

import "fmt"

// Action identifies one of the closed set of side-effecting operations a plan
// may reference. The set is fixed at compile time; anything else coming out of
// the planner is rejected during plan validation.
type Action string

const (
	ActionSendSlackMessage   Action = "send_slack_message"
	ActionSendEmail          Action = "send_email"
	ActionRequestMissingInfo Action = "request_missing_info"
)

// requiredFields maps every action to the argument fields its tool contract
// requires. Actions absent from the map require no arguments.
var requiredFields = map[Action][]string{
	ActionSendSlackMessage: {"channel", "text"},
	ActionSendEmail:        {"to", "subject", "body"},
}

// ParseAction validates a wire-level action name.
func ParseAction(name string) (Action, error) {
	switch a := Action(name); a {
	case ActionSendSlackMessage, ActionSendEmail, ActionRequestMissingInfo:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", name)
}

// RequiredFields returns the argument fields the action's tool contract
// requires. The returned slice is shared; callers must not mutate it.
func (a Action) RequiredFields() []string {
	return requiredFields[a]
}

// String implements fmt.Stringer.
func (a Action) String() string { return string(a) }
