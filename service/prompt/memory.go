package prompt

import (
	"context"
	"sync"

	"github.com/opsrelay/opsrelay/model"
)

type entry struct {
	template string
	schema   map[string]interface{}
}

// MemoryStore is an in-memory Store, used by tests and by the default wiring
// when no prompt directory is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*entry)}
}

// Register adds or replaces a prompt entry.
func (s *MemoryStore) Register(workflow model.Workflow, module, version, template string, schema map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key(workflow, module, version)] = &entry{template: template, schema: schema}
}

// Prompt implements Store.
func (s *MemoryStore) Prompt(_ context.Context, workflow model.Workflow, module, version string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key(workflow, module, version)]
	if !ok {
		return "", notFound(workflow, module, version, "prompt")
	}
	return e.template, nil
}

// Schema implements Store.
func (s *MemoryStore) Schema(_ context.Context, workflow model.Workflow, module, version string) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key(workflow, module, version)]
	if !ok || e.schema == nil {
		return nil, notFound(workflow, module, version, "schema")
	}
	return e.schema, nil
}

func key(workflow model.Workflow, module, version string) string {
	return workflow.String() + "/" + module + "/" + version
}

var _ Store = (*MemoryStore)(nil)
