package prompt

import "github.com/opsrelay/opsrelay/model"

// Built-in v1 prompt templates. A configured prompt directory overrides
// these; they keep the engine runnable out of the box.

const notificationTemplate = `You route operational notifications to the right channel.

USER REQUEST:
${user_request}

Decide which single tool to call. Available tools:
- send_slack_message(channel, text, urgency)
- send_email(to, subject, body)
- request_missing_info(question)

Return ONLY ONE JSON object with keys "name" and "arguments".
If required information is missing, choose "request_missing_info".`

const incidentPlanTemplate = `You plan an incident broadcast.

USER REQUEST:
${user_request}

Produce a JSON plan with "intent": "incident_broadcast" and "steps".
Each step has "name" (one of send_slack_message, send_email,
request_missing_info), "arguments", and an optional "parallel_group" label
for steps that can run concurrently.
Return ONLY the JSON object.`

const incidentSummaryTemplate = `Summarise the outcome of an incident broadcast.

USER REQUEST:
${user_request}

TOOL OUTCOMES (JSON):
${tool_outcomes_json}

Return ONLY ONE JSON object with keys "incident_title", "actions_taken",
"tool_outcomes" and "next_steps".`

var toolCallSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"name", "arguments"},
	"properties": map[string]interface{}{
		"name":      map[string]interface{}{"type": "string"},
		"arguments": map[string]interface{}{"type": "object"},
	},
	"additionalProperties": false,
}

var planSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"intent", "steps"},
	"properties": map[string]interface{}{
		"intent": map[string]interface{}{"const": "incident_broadcast"},
		"steps": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"name", "arguments"},
				"properties": map[string]interface{}{
					"name":           map[string]interface{}{"type": "string"},
					"arguments":      map[string]interface{}{"type": "object"},
					"parallel_group": map[string]interface{}{"type": "string"},
				},
			},
		},
	},
}

var summarySchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"incident_title", "actions_taken", "tool_outcomes", "next_steps"},
	"properties": map[string]interface{}{
		"incident_title": map[string]interface{}{"type": "string"},
		"actions_taken":  map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		"tool_outcomes":  map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		"next_steps":     map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
	},
}

// NewDefaultStore returns a memory store pre-loaded with the built-in v1
// prompts for both workflows.
func NewDefaultStore() *MemoryStore {
	s := NewMemoryStore()
	s.Register(model.WorkflowNotificationRouter, ModuleNotification, "v1", notificationTemplate, toolCallSchema)
	s.Register(model.WorkflowIncidentBroadcast, ModuleIncidentPlan, "v1", incidentPlanTemplate, planSchema)
	s.Register(model.WorkflowIncidentBroadcast, ModuleSummary, "v1", incidentSummaryTemplate, summarySchema)
	return s
}
