// Package tool implements the side-effecting action layer: typed action
// services, a registry, per-action contracts and the Gateway used by the
// execution pipeline.
package tool

import (
	"context"
	"fmt"
	"reflect"
)

// Executable is a bound action method.
type Executable func(ctx context.Context, input, output interface{}) error

// Signature describes one action method.
type Signature struct {
	Name        string
	Description string
	Input       reflect.Type
	Output      reflect.Type
}

// Signatures is a lookup-able method list.
type Signatures []Signature

// Lookup returns the signature with the given name or nil.
func (s Signatures) Lookup(name string) *Signature {
	for i := range s {
		if s[i].Name == name {
			return &s[i]
		}
	}
	return nil
}

// Service is an action service: a named bundle of typed methods.
type Service interface {
	Name() string
	Methods() Signatures
	Method(name string) (Executable, error)
}

// NewMethodNotFoundError reports an unknown method.
func NewMethodNotFoundError(name string) error {
	return fmt.Errorf("method %v not found", name)
}

// NewInvalidInputError reports a mistyped input value.
func NewInvalidInputError(in interface{}) error {
	return fmt.Errorf("invalid input %T", in)
}

// NewInvalidOutputError reports a mistyped output value.
func NewInvalidOutputError(out interface{}) error {
	return fmt.Errorf("invalid output %T", out)
}
