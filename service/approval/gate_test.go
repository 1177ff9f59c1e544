package approval_test

import (
	"context"
	"testing"

	"github.com/opsrelay/opsrelay/model"
	"github.com/opsrelay/opsrelay/policy"
	"github.com/opsrelay/opsrelay/service/approval"
	"github.com/opsrelay/opsrelay/service/approval/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func broadcastPlan() *model.Plan {
	return &model.Plan{
		Intent: model.IntentIncidentBroadcast,
		Steps: []model.PlannedStep{
			{Action: model.ActionSendSlackMessage, Arguments: map[string]interface{}{"channel": "#ops", "text": "db down"}, ParallelGroup: "g1"},
			{Action: model.ActionSendEmail, Arguments: map[string]interface{}{"to": "oncall@acme.io", "subject": "db down", "body": "details"}, ParallelGroup: "g1"},
		},
	}
}

func TestGate_Evaluate(t *testing.T) {
	engine := policy.NewEngine(policy.DefaultConfig())

	testCases := []struct {
		description string
		workflow    model.Workflow
		plan        *model.Plan
		expectErr   bool
		proceed     bool
		actions     []model.Action
	}{
		{
			description: "broadcast plan pauses for approval",
			workflow:    model.WorkflowIncidentBroadcast,
			plan:        broadcastPlan(),
			actions:     []model.Action{model.ActionSendSlackMessage, model.ActionSendEmail},
		},
		{
			description: "router plan proceeds without approval",
			workflow:    model.WorkflowNotificationRouter,
			plan: &model.Plan{Steps: []model.PlannedStep{
				{Action: model.ActionSendSlackMessage, Arguments: map[string]interface{}{"channel": "#ops", "text": "hi"}},
			}},
			proceed: true,
		},
		{
			description: "denied action aborts the run",
			workflow:    model.WorkflowNotificationRouter,
			plan: &model.Plan{Steps: []model.PlannedStep{
				{Action: model.Action("drop_database")},
			}},
			expectErr: true,
		},
	}

	for _, testCase := range testCases {
		repository := memory.New()
		gate := approval.NewGate(repository)
		securityPolicy := engine.ForWorkflow(testCase.workflow, "user-1")

		result, err := gate.Evaluate(context.Background(), "trace-1", testCase.workflow,
			"safe request", testCase.plan, securityPolicy, "user-1")
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.proceed, result.Proceed, testCase.description)
		if testCase.proceed {
			assert.Nil(t, result.Outcome, testCase.description)
			continue
		}

		require.NotNil(t, result.Outcome, testCase.description)
		assert.Equal(t, model.StatusApprovalRequired, result.Outcome.Status, testCase.description)
		assert.NotEmpty(t, result.Outcome.ApprovalID, testCase.description)
		assert.Equal(t, testCase.actions, result.Outcome.Actions, testCase.description)

		// Exactly one PENDING record was persisted.
		page, err := repository.List(context.Background(), approval.Filters{Status: approval.StatusPending},
			approval.Paging{}, approval.Sorting{})
		require.NoError(t, err, testCase.description)
		require.Len(t, page.Data, 1, testCase.description)
		stored := page.Data[0]
		assert.Equal(t, result.Outcome.ApprovalID, stored.ID, testCase.description)
		assert.Equal(t, "trace-1", stored.TraceID, testCase.description)
		assert.Equal(t, testCase.actions, stored.Actions, testCase.description)
		assert.NotNil(t, stored.Plan, testCase.description)
		assert.Equal(t, "One or more actions require approval.", stored.Reason, testCase.description)
	}
}
