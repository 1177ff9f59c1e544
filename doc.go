// Package opsrelay is an LLM workflow orchestration engine for operational
// messaging. It turns a free-form user request into a validated, policy-checked
// action plan, pauses for human approval when the plan needs one, executes the
// approved actions as a deterministic DAG of tool calls with bounded
// parallelism, and closes the run with a structured model-generated summary.
//
// The engine exposes three entry points: the single-call notification router
// with a repair-prompt retry loop, the multi-step incident broadcast, and the
// resume path that re-enters a run paused on approval.
package opsrelay
