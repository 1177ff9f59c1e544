package tool

import (
	"fmt"
	"strings"

	"github.com/opsrelay/opsrelay/model"
)

// Route binds a planned action to the service.method that executes it.
type Route struct {
	Service string
	Method  string
}

var routes = map[model.Action]Route{
	model.ActionSendSlackMessage:   {Service: "slack", Method: "send"},
	model.ActionSendEmail:          {Service: "email", Method: "send"},
	model.ActionRequestMissingInfo: {Service: "interaction", Method: "request"},
}

// RouteOf resolves the executing service.method of an action.
func RouteOf(action model.Action) (Route, error) {
	route, ok := routes[action]
	if !ok {
		return Route{}, fmt.Errorf("no tool registered for action %q", action)
	}
	return route, nil
}

// ValidateArgs checks that every argument field the action's contract
// requires is present.
func ValidateArgs(action model.Action, args map[string]interface{}) error {
	var missing []string
	for _, field := range action.RequiredFields() {
		if _, ok := args[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("action %q missing required argument(s): %s", action, strings.Join(missing, ", "))
	}
	return nil
}
