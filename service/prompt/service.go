// Package prompt resolves (workflow, module, version) triples to prompt
// templates and JSON output-shape schemas, and renders templates with strict
// placeholder substitution.
package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/opsrelay/opsrelay/model"
)

// Prompt modules used by the orchestration workflows.
const (
	ModuleNotification = "notification"
	ModuleIncidentPlan = "incident_plan"
	ModuleSummary      = "incident_summary"
)

// ErrNotFound is returned when no prompt or schema exists for the requested
// (workflow, module, version) triple.
var ErrNotFound = errors.New("prompt: not found")

// Store resolves prompt templates and their output schemas.
type Store interface {
	// Prompt returns the raw template for the triple.
	Prompt(ctx context.Context, workflow model.Workflow, module, version string) (string, error)

	// Schema returns the JSON output-shape schema for the triple.
	Schema(ctx context.Context, workflow model.Workflow, module, version string) (map[string]interface{}, error)
}

func notFound(workflow model.Workflow, module, version, kind string) error {
	return fmt.Errorf("%w: %s for %s/%s/%s", ErrNotFound, kind, workflow, module, version)
}
