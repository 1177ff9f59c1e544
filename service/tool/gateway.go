package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/viant/structology/conv"

	"github.com/opsrelay/opsrelay/model"
)

// Gateway executes one named action with validated arguments and returns the
// tool's structured result payload. It is the only path through which plan
// steps reach a side-effecting service.
type Gateway interface {
	Execute(ctx context.Context, action model.Action, args map[string]interface{}) (map[string]interface{}, error)
}

type registryGateway struct {
	registry *Registry
}

// NewGateway creates a Gateway dispatching through the given registry.
func NewGateway(registry *Registry) Gateway {
	return &registryGateway{registry: registry}
}

// newConverter builds the argument converter. A fresh converter per call
// keeps Execute safe under the DAG's intra-group fan-out; the converter's
// internal struct-info cache is not synchronized.
func newConverter() *conv.Converter {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	return conv.NewConverter(options)
}

// Execute implements Gateway.
func (g *registryGateway) Execute(ctx context.Context, action model.Action, args map[string]interface{}) (map[string]interface{}, error) {
	route, err := RouteOf(action)
	if err != nil {
		return nil, err
	}
	if err := ValidateArgs(action, args); err != nil {
		return nil, err
	}

	service := g.registry.Lookup(route.Service)
	if service == nil {
		return nil, fmt.Errorf("service %v not found", route.Service)
	}
	signature := service.Methods().Lookup(route.Method)
	if signature == nil {
		return nil, NewMethodNotFoundError(route.Method)
	}
	method, err := service.Method(route.Method)
	if err != nil {
		return nil, err
	}

	input := reflect.New(signature.Input.Elem()).Interface()
	if err := newConverter().Convert(args, input); err != nil {
		return nil, fmt.Errorf("invalid arguments for %v: %w", action, err)
	}
	output := reflect.New(signature.Output.Elem()).Interface()

	if err := method(ctx, input, output); err != nil {
		return nil, err
	}
	return toPayload(output)
}

// toPayload converts a typed tool output into the generic result envelope.
func toPayload(output interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(output)
	if err != nil {
		return nil, fmt.Errorf("unserialisable tool result: %w", err)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid tool result payload: %w", err)
	}
	return payload, nil
}

var _ Gateway = (*registryGateway)(nil)
