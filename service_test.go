package opsrelay_test

import (
	"context"
	"testing"

	"github.com/opsrelay/opsrelay"
	"github.com/opsrelay/opsrelay/model"
	"github.com/opsrelay/opsrelay/runtime/orchestrator"
	"github.com/opsrelay/opsrelay/service/approval"
	"github.com/opsrelay/opsrelay/service/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const planPayload = `{"intent": "incident_broadcast", "steps": [
	{"name": "send_slack_message", "arguments": {"channel": "#ops", "text": "db down"}, "parallel_group": "g1"},
	{"name": "send_email", "arguments": {"to": "oncall@acme.io", "subject": "db down", "body": "details"}, "parallel_group": "g1"}
]}`

const summaryPayload = `{"incident_title": "DB outage", "actions_taken": ["slack", "email"],
	"tool_outcomes": ["ok", "ok"], "next_steps": ["monitor"]}`

// The broadcast pipeline pauses on approval with exactly one pending record,
// then an approve-and-resume completes the run.
func TestService_ApprovalPauseAndResume(t *testing.T) {
	service := opsrelay.New(
		opsrelay.WithModelClient(llm.NewScriptedClient(planPayload, summaryPayload)),
	)
	ctx := context.Background()

	paused, err := service.RunIncidentBroadcast(ctx, &orchestrator.BroadcastInput{
		UserRequest: "db is down, page everyone",
		UserID:      "alice",
	})
	require.NoError(t, err)
	require.Equal(t, model.StatusApprovalRequired, paused.Status)
	assert.Equal(t, []model.Action{model.ActionSendSlackMessage, model.ActionSendEmail}, paused.Actions)

	page, err := service.Approvals().List(ctx, approval.Filters{Status: approval.StatusPending},
		approval.Paging{}, approval.Sorting{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, paused.ApprovalID, page.Data[0].ID)

	outcome, err := service.ResumeApprovedWorkflow(ctx, paused.ApprovalID, "bob")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, outcome.Status)
	assert.Equal(t, page.Data[0].TraceID, outcome.TraceID)
	require.Len(t, outcome.Records, 2)
	assert.True(t, outcome.Records[0].OK)
	assert.True(t, outcome.Records[1].OK)
	require.NotNil(t, outcome.Summary)
	assert.Equal(t, "DB outage", outcome.Summary.IncidentTitle)
}

func TestService_NotificationRouter(t *testing.T) {
	toolCall := `{"name": "send_email", "arguments": {"to": "dev@acme.io", "subject": "Build", "body": "Build passed."}}`
	service := opsrelay.New(
		opsrelay.WithModelClient(llm.NewScriptedClient(toolCall)),
	)

	result, err := service.RunNotificationRouter(context.Background(), &orchestrator.NotificationInput{
		UserRequest: "email the devs that the build passed",
	})
	require.NoError(t, err)
	assert.Equal(t, true, result["ok"])
	assert.Equal(t, "send_email", result["tool"])
}

func TestConfig_Validate(t *testing.T) {
	config := opsrelay.DefaultConfig()
	require.NoError(t, config.Validate())

	config.MaxRetries = -1
	assert.Error(t, config.Validate())
}
