package tool_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opsrelay/opsrelay/model"
	"github.com/opsrelay/opsrelay/service/tool"
	"github.com/opsrelay/opsrelay/service/tool/email"
	"github.com/opsrelay/opsrelay/service/tool/interaction"
	"github.com/opsrelay/opsrelay/service/tool/slack"
)

func newTestGateway() tool.Gateway {
	registry := tool.NewRegistry()
	registry.Register(slack.New())
	registry.Register(email.New())
	registry.Register(interaction.New())
	return tool.NewGateway(registry)
}

func TestGatewayExecute(t *testing.T) {
	ctx := context.Background()
	gateway := newTestGateway()

	type testCase struct {
		name        string
		action      model.Action
		args        map[string]interface{}
		expectError bool
		expectOK    bool
	}

	tests := []testCase{
		{
			name:     "slack send",
			action:   model.ActionSendSlackMessage,
			args:     map[string]interface{}{"channel": "#alerts", "text": "checkout errors"},
			expectOK: true,
		},
		{
			name:     "email send",
			action:   model.ActionSendEmail,
			args:     map[string]interface{}{"to": "dev@example.com", "subject": "Incident", "body": "details"},
			expectOK: true,
		},
		{
			name:     "request missing info needs no arguments",
			action:   model.ActionRequestMissingInfo,
			args:     map[string]interface{}{},
			expectOK: true,
		},
		{
			name:        "missing required argument",
			action:      model.ActionSendEmail,
			args:        map[string]interface{}{"to": "dev@example.com"},
			expectError: true,
		},
		{
			name:        "unknown action",
			action:      model.Action("launch_rocket"),
			args:        map[string]interface{}{},
			expectError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := gateway.Execute(ctx, tc.action, tc.args)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, tc.expectOK, payload["ok"])
		})
	}
}

func TestGatewayHTTPEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tools/send-slack", r.URL.Path)
		var in map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "#alerts", in["channel"])
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "tool": "send_slack_message", "message_id": "m-1"})
	}))
	defer server.Close()

	registry := tool.NewRegistry()
	registry.Register(slack.New(slack.WithEndpoint(server.URL)))
	gateway := tool.NewGateway(registry)

	payload, err := gateway.Execute(context.Background(), model.ActionSendSlackMessage,
		map[string]interface{}{"channel": "#alerts", "text": "hello"})
	assert.NoError(t, err)
	assert.Equal(t, true, payload["ok"])
	assert.Equal(t, "m-1", payload["message_id"])
}

func TestGatewayEndpointFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	registry := tool.NewRegistry()
	registry.Register(email.New(email.WithEndpoint(server.URL)))
	gateway := tool.NewGateway(registry)

	_, err := gateway.Execute(context.Background(), model.ActionSendEmail,
		map[string]interface{}{"to": "a@b.c", "subject": "s", "body": "b"})
	assert.Error(t, err)
}

// Parallel plan groups drive concurrent Execute calls through one gateway;
// argument conversion must hold up under the race detector.
func TestGatewayConcurrentExecute(t *testing.T) {
	ctx := context.Background()
	gateway := newTestGateway()

	const workers = 16
	errs := make([]error, workers)
	payloads := make([]map[string]interface{}, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				payloads[i], errs[i] = gateway.Execute(ctx, model.ActionSendSlackMessage,
					map[string]interface{}{"channel": "#alerts", "text": "checkout errors"})
				return
			}
			payloads[i], errs[i] = gateway.Execute(ctx, model.ActionSendEmail,
				map[string]interface{}{"to": "dev@example.com", "subject": "Incident", "body": "details"})
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		assert.NoError(t, errs[i])
		assert.Equal(t, true, payloads[i]["ok"])
	}
}
