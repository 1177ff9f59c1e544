// Package policy implements the per-workflow security policy: action
// allowlists, human-approval requirements and input sanitization applied
// before any planned action reaches a side-effecting tool.
package policy
