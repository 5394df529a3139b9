// Package metrics provides Prometheus metrics for the companion backend.
//
// # Metrics Categories
//
//   - Chat Metrics: handled messages by locale and outcome, handling time
//   - Upstream Metrics: model endpoint health, latency, errors by kind, tokens
//   - Session Metrics: active sessions, removals, rate-limited requests
//   - Privacy Metrics: PII detections by pattern name
//
// # Usage
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	collector.RecordChat("es", metrics.OutcomeSuccess, 1200*time.Millisecond)
//	collector.RecordUpstreamError("databricks", "timeout")
//	collector.UpdateUpstreamHealth("databricks", true)
//
// # Prometheus Endpoint
//
// Metrics are exposed from a private registry in the Prometheus text format:
//
//	# HELP aya_companion_chat_requests_total Total number of chat messages handled
//	# TYPE aya_companion_chat_requests_total counter
//	aya_companion_chat_requests_total{locale="es",outcome="success"} 12
//
// Pattern names used as label values are capped by a CardinalityLimiter;
// names past the cap are counted as "other".
package metrics
