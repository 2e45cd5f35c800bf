// Package observability owns exchange metrics and tracing.
//
// Ownership boundary:
// - prometheus collectors for exchanges and responder frames
// - the /metrics endpoint
// - otel tracer provider setup and span helpers
package observability
