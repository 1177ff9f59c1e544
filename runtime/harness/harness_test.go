package harness_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/opsrelay/opsrelay/model"
	"github.com/opsrelay/opsrelay/runtime/harness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	result map[string]interface{}
	err    error
	calls  []model.Action
}

func (f *fakeGateway) Execute(_ context.Context, action model.Action, _ map[string]interface{}) (map[string]interface{}, error) {
	f.calls = append(f.calls, action)
	return f.result, f.err
}

func TestService_Run(t *testing.T) {
	testCases := []struct {
		description string
		call        *harness.ToolCall
		gateway     *fakeGateway
		expectStage string
		expectOK    bool
	}{
		{
			description: "valid slack call passes through",
			call: &harness.ToolCall{
				Name:      "send_slack_message",
				Arguments: map[string]interface{}{"channel": "#ops", "text": "db down"},
			},
			gateway:  &fakeGateway{result: map[string]interface{}{"ok": true, "tool": "send_slack_message"}},
			expectOK: true,
		},
		{
			description: "unknown tool name fails validation",
			call: &harness.ToolCall{
				Name:      "launch_rocket",
				Arguments: map[string]interface{}{},
			},
			gateway:     &fakeGateway{},
			expectStage: "validate",
		},
		{
			description: "missing required argument fails validation",
			call: &harness.ToolCall{
				Name:      "send_email",
				Arguments: map[string]interface{}{"to": "oncall@acme.io"},
			},
			gateway:     &fakeGateway{},
			expectStage: "validate",
		},
		{
			description: "nil arguments fail validation",
			call:        &harness.ToolCall{Name: "send_slack_message"},
			gateway:     &fakeGateway{},
			expectStage: "validate",
		},
		{
			description: "gateway failure surfaces as execute stage",
			call: &harness.ToolCall{
				Name:      "send_slack_message",
				Arguments: map[string]interface{}{"channel": "#ops", "text": "hi"},
			},
			gateway:     &fakeGateway{err: fmt.Errorf("connection refused")},
			expectStage: "execute",
		},
		{
			description: "result without ok field is rejected",
			call: &harness.ToolCall{
				Name:      "send_slack_message",
				Arguments: map[string]interface{}{"channel": "#ops", "text": "hi"},
			},
			gateway:     &fakeGateway{result: map[string]interface{}{"tool": "send_slack_message"}},
			expectStage: "result",
		},
	}

	for _, testCase := range testCases {
		service := harness.New(testCase.gateway)
		result, err := service.Run(context.Background(), testCase.call)
		if testCase.expectOK {
			require.NoError(t, err, testCase.description)
			assert.Equal(t, testCase.gateway.result, result, testCase.description)
			continue
		}
		var toolErr *harness.ToolExecutionError
		require.True(t, errors.As(err, &toolErr), testCase.description)
		assert.Equal(t, testCase.expectStage, toolErr.Stage, testCase.description)
		if testCase.expectStage == "validate" {
			assert.Empty(t, testCase.gateway.calls, testCase.description)
		}
	}
}
