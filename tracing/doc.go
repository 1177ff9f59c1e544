// Package tracing is a thin wrapper around OpenTelemetry tracing. All
// instrumentation lives in one package so that the orchestration code can
// open spans around model calls, tool calls and workflow phases without
// importing the upstream API directly.
package tracing
