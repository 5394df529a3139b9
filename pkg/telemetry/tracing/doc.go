// Package tracing provides OpenTelemetry distributed tracing for the
// companion backend.
//
// # Overview
//
// Tracing is off by default. When disabled, New returns a noop Tracer and
// nothing is dialed. When enabled, spans are batched to an OTLP gRPC
// collector and W3C Trace Context is propagated on incoming API requests
// and outgoing model endpoint calls.
//
// # Spans
//
//	chat.send          one chat message, from privacy screen to reply
//	assistant.send     prompt formatting and normalization
//	upstream.post      the HTTP call to the model endpoint
//	assistant.health   the health probe
//
// # Sampling
//
// New traces are sampled by trace ID ratio (telemetry.tracing.sample_ratio);
// child spans follow their parent's decision.
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: localhost:4317
//	    sample_ratio: 0.1
package tracing
