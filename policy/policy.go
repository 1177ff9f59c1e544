package policy

import (
	"fmt"

	"github.com/opsrelay/opsrelay/model"
)

// Decision outcomes.
const (
	OutcomeAllow           = "ALLOW"
	OutcomeDeny            = "DENY"
	OutcomeRequireApproval = "REQUIRE_APPROVAL"
)

// Decision is the verdict for a single planned action under a workflow's
// security policy.
type Decision struct {
	Outcome string       `json:"outcome"`
	Action  model.Action `json:"action"`
	Reason  string       `json:"reason,omitempty"`
}

// ViolationError is raised when an action denied by policy reaches the
// execution layer. It is fatal - never folded into a step record.
type ViolationError struct {
	Action   model.Action
	Workflow model.Workflow
}

// Error implements error.
func (e *ViolationError) Error() string {
	return fmt.Sprintf("action %q not allowed in workflow %q", e.Action, e.Workflow)
}

// SecurityPolicy is the allow/approval rule set of one workflow. Invariant:
// the approval set is a subset of the allowed set; an action outside the
// allowed set is always denied regardless of the approval set.
type SecurityPolicy struct {
	Workflow         model.Workflow
	allowed          map[model.Action]bool
	approvalRequired map[model.Action]bool
}

// NewSecurityPolicy builds a policy from explicit action sets.
func NewSecurityPolicy(workflow model.Workflow, allowed, approvalRequired []model.Action) *SecurityPolicy {
	p := &SecurityPolicy{
		Workflow:         workflow,
		allowed:          make(map[model.Action]bool, len(allowed)),
		approvalRequired: make(map[model.Action]bool, len(approvalRequired)),
	}
	for _, a := range allowed {
		p.allowed[a] = true
	}
	for _, a := range approvalRequired {
		p.approvalRequired[a] = true
	}
	return p
}

// IsAllowed reports whether the action is in the allowed set.
func (p *SecurityPolicy) IsAllowed(action model.Action) bool {
	return p.allowed[action]
}

// Evaluate yields the decision for a single action: DENY when outside the
// allowed set, REQUIRE_APPROVAL when flagged as sensitive, ALLOW otherwise.
func (p *SecurityPolicy) Evaluate(action model.Action) Decision {
	if !p.allowed[action] {
		return Decision{
			Outcome: OutcomeDeny,
			Action:  action,
			Reason:  fmt.Sprintf("action %q not allowed by policy", action),
		}
	}
	if p.approvalRequired[action] {
		return Decision{
			Outcome: OutcomeRequireApproval,
			Action:  action,
			Reason:  fmt.Sprintf("action %q requires human approval", action),
		}
	}
	return Decision{Outcome: OutcomeAllow, Action: action}
}

// AssertAllowed returns a fatal ViolationError when the action is outside the
// allowed set. Used by the executor as a defense-in-depth check even though
// the orchestrator evaluated the plan upstream.
func (p *SecurityPolicy) AssertAllowed(action model.Action) error {
	if !p.allowed[action] {
		return &ViolationError{Action: action, Workflow: p.Workflow}
	}
	return nil
}

// Rule is the serialisable rule set of one workflow.
type Rule struct {
	Allow           []model.Action `json:"allow,omitempty" yaml:"allow,omitempty"`
	RequireApproval []model.Action `json:"requireApproval,omitempty" yaml:"requireApproval,omitempty"`
}

// Config maps workflows to their declarative rules. It can be populated from
// JSON or YAML; the zero value is the deny-everything policy.
type Config struct {
	Rules map[model.Workflow]Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// DefaultConfig returns the least-privilege rule table used when no explicit
// configuration is supplied: the router may use all three actions without
// approval, the broadcast workflow requires approval for both send actions.
func DefaultConfig() *Config {
	return &Config{
		Rules: map[model.Workflow]Rule{
			model.WorkflowNotificationRouter: {
				Allow: []model.Action{
					model.ActionSendSlackMessage,
					model.ActionSendEmail,
					model.ActionRequestMissingInfo,
				},
			},
			model.WorkflowIncidentBroadcast: {
				Allow: []model.Action{
					model.ActionSendSlackMessage,
					model.ActionSendEmail,
					model.ActionRequestMissingInfo,
				},
				RequireApproval: []model.Action{
					model.ActionSendSlackMessage,
					model.ActionSendEmail,
				},
			},
		},
	}
}

// Validate reports rules whose approval set is not covered by the allow set.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	for workflow, rule := range c.Rules {
		allowed := make(map[model.Action]bool, len(rule.Allow))
		for _, a := range rule.Allow {
			allowed[a] = true
		}
		for _, a := range rule.RequireApproval {
			if !allowed[a] {
				return fmt.Errorf("policy %v: approval-required action %q is not in the allow set", workflow, a)
			}
		}
	}
	return nil
}

// Engine resolves workflows to security policies from an injected rule table.
type Engine struct {
	config *Config
}

// NewEngine creates an engine; a nil config falls back to DefaultConfig.
func NewEngine(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{config: config}
}

// ForWorkflow returns the workflow's policy. Workflows without a rule entry
// resolve to the empty policy - deny by default. The userID parameter is
// accepted for future per-user rules and is currently unused.
func (e *Engine) ForWorkflow(workflow model.Workflow, userID string) *SecurityPolicy {
	rule, ok := e.config.Rules[workflow]
	if !ok {
		return NewSecurityPolicy(workflow, nil, nil)
	}
	return NewSecurityPolicy(workflow, rule.Allow, rule.RequireApproval)
}

// EvaluatePlan yields one decision per input action, preserving input length
// and order, including repeated actions.
func EvaluatePlan(policy *SecurityPolicy, actions []model.Action) []Decision {
	decisions := make([]Decision, len(actions))
	for i, action := range actions {
		decisions[i] = policy.Evaluate(action)
	}
	return decisions
}
