package plangen_test

import (
	"context"
	"errors"
	"testing"

	"github.com/opsrelay/opsrelay/model"
	"github.com/opsrelay/opsrelay/runtime/plangen"
	"github.com/opsrelay/opsrelay/service/llm"
	"github.com/opsrelay/opsrelay/service/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	store := prompt.NewDefaultStore()

	testCases := []struct {
		description string
		payload     string
		expectSteps int
		expectErr   bool
	}{
		{
			description: "normalized plan shape",
			payload: `{"intent": "incident_broadcast", "steps": [
				{"name": "send_slack_message", "arguments": {"channel": "#ops", "text": "db down"}, "parallel_group": "g1"},
				{"name": "send_email", "arguments": {"to": "a@b.c", "subject": "s", "body": "b"}}
			]}`,
			expectSteps: 2,
		},
		{
			description: "grouped plan shape inside a code fence",
			payload: "```json\n" + `{"plan": [
				{"parallel_group": "g1", "steps": [
					{"tool": "send_slack_message", "parameters": {"channel": "#ops", "text": "db down"}}
				]}
			]}` + "\n```",
			expectSteps: 1,
		},
		{
			description: "prose output is an invalid plan",
			payload:     "I cannot produce a plan for that.",
			expectErr:   true,
		},
		{
			description: "unknown shape is an invalid plan",
			payload:     `{"workflow": "incident_broadcast", "tasks": []}`,
			expectErr:   true,
		},
	}

	for _, testCase := range testCases {
		client := llm.NewScriptedClient(testCase.payload)
		generator := plangen.New(client, store)

		plan, err := generator.Generate(context.Background(), &plangen.Input{
			TraceID:     "trace-1",
			Workflow:    model.WorkflowIncidentBroadcast,
			UserRequest: "db is down, page everyone",
			Version:     "v1",
		})
		if testCase.expectErr {
			var invalid *plangen.InvalidPlanError
			require.True(t, errors.As(err, &invalid), testCase.description)
			assert.Equal(t, testCase.payload, invalid.RawOutput, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Len(t, plan.Steps, testCase.expectSteps, testCase.description)

		// The rendered prompt embeds the user request.
		require.Len(t, client.Prompts(), 1, testCase.description)
		assert.Contains(t, client.Prompts()[0], "db is down, page everyone", testCase.description)
	}
}

func TestGenerate_MissingPrompt(t *testing.T) {
	store := prompt.NewMemoryStore()
	generator := plangen.New(llm.NewScriptedClient("{}"), store)

	_, err := generator.Generate(context.Background(), &plangen.Input{
		Workflow: model.WorkflowIncidentBroadcast,
		Version:  "v9",
	})
	assert.True(t, errors.Is(err, prompt.ErrNotFound))
}
