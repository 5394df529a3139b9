// Package telemetry groups the observability packages of the companion
// backend.
//
//   - logging: slog-based structured logging with PII redaction
//   - metrics: Prometheus metrics for chat, upstream, sessions and privacy
//   - tracing: OpenTelemetry tracing, noop unless enabled
//   - health: liveness and readiness probes
package telemetry
