package tool

import (
	"sync"

	"github.com/viant/x"
)

// Registry holds action services and the go types of their inputs/outputs.
type Registry struct {
	types    *x.Registry
	services map[string]Service
	mux      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:    x.NewRegistry(),
		services: make(map[string]Service),
	}
}

// Types exposes the type registry.
func (r *Registry) Types() *x.Registry {
	return r.types
}

// Lookup returns a service by name, or nil.
func (r *Registry) Lookup(name string) Service {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return r.services[name]
}

// Register adds a service and records its method input/output types.
func (r *Registry) Register(service Service) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, signature := range service.Methods() {
		if signature.Input != nil {
			r.types.Register(x.NewType(signature.Input))
		}
		if signature.Output != nil {
			r.types.Register(x.NewType(signature.Output))
		}
	}
	r.services[service.Name()] = service
}
