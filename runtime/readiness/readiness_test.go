package readiness_test

import (
	"testing"

	"github.com/opsrelay/opsrelay/model"
	"github.com/opsrelay/opsrelay/runtime/readiness"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		description   string
		plan          *model.Plan
		ready         bool
		expectMissing map[model.Action][]string
	}{
		{
			description: "complete plan is ready",
			plan: &model.Plan{Steps: []model.PlannedStep{
				{Action: model.ActionSendSlackMessage, Arguments: map[string]interface{}{"channel": "#ops", "text": "hi"}},
				{Action: model.ActionSendEmail, Arguments: map[string]interface{}{"to": "a@b.c", "subject": "s", "body": "b"}},
			}},
			ready: true,
		},
		{
			description: "email step missing subject",
			plan: &model.Plan{Steps: []model.PlannedStep{
				{Action: model.ActionSendEmail, Arguments: map[string]interface{}{"to": "a@b.c", "body": "b"}},
			}},
			expectMissing: map[model.Action][]string{model.ActionSendEmail: {"subject"}},
		},
		{
			description: "missing fields accumulate across steps of the same action",
			plan: &model.Plan{Steps: []model.PlannedStep{
				{Action: model.ActionSendSlackMessage, Arguments: map[string]interface{}{"channel": "#ops"}},
				{Action: model.ActionSendSlackMessage, Arguments: map[string]interface{}{"text": "hi"}},
			}},
			expectMissing: map[model.Action][]string{model.ActionSendSlackMessage: {"text", "channel"}},
		},
		{
			description: "step with nil arguments misses everything",
			plan: &model.Plan{Steps: []model.PlannedStep{
				{Action: model.ActionSendSlackMessage},
			}},
			expectMissing: map[model.Action][]string{model.ActionSendSlackMessage: {"channel", "text"}},
		},
		{
			description: "request_missing_info requires no arguments",
			plan: &model.Plan{Steps: []model.PlannedStep{
				{Action: model.ActionRequestMissingInfo},
			}},
			ready: true,
		},
		{
			description: "empty plan is ready",
			plan:        &model.Plan{},
			ready:       true,
		},
	}

	for _, testCase := range testCases {
		decision := readiness.Evaluate(testCase.plan)
		assert.Equal(t, testCase.ready, decision.Ready(), testCase.description)
		if testCase.ready {
			assert.Empty(t, decision.MissingFields, testCase.description)
			assert.Empty(t, decision.Reason, testCase.description)
			continue
		}
		assert.Equal(t, readiness.OutcomeNeedsInput, decision.Outcome, testCase.description)
		assert.Equal(t, testCase.expectMissing, decision.MissingFields, testCase.description)
		assert.Equal(t, readiness.NeedsInputReason, decision.Reason, testCase.description)
	}
}
