package metrics

import (
	"aya-hq/companion/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics tracks the hosted model endpoint.
//
// Metrics:
//   - aya_companion_upstream_healthy: last health probe (1=healthy, 0=unhealthy)
//   - aya_companion_upstream_latency_seconds: call latency
//   - aya_companion_upstream_errors_total: failures by error kind
//   - aya_companion_upstream_tokens_total: reported token usage
type UpstreamMetrics struct {
	healthy *prometheus.GaugeVec
	latency *prometheus.HistogramVec
	errors  *prometheus.CounterVec
	tokens  *prometheus.CounterVec
}

// NewUpstreamMetrics creates and registers upstream metrics with the provided registry.
func NewUpstreamMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *UpstreamMetrics {
	um := &UpstreamMetrics{
		healthy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_healthy",
				Help:      "Model endpoint health (1=healthy, 0=unhealthy)",
			},
			[]string{"provider"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_latency_seconds",
				Help:      "Model endpoint call latency in seconds",
				Buckets:   cfg.LatencyBuckets,
			},
			[]string{"provider"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_errors_total",
				Help:      "Total number of model endpoint failures by kind",
			},
			[]string{"provider", "kind"},
		),
		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_tokens_total",
				Help:      "Total number of tokens reported by the model endpoint",
			},
			[]string{"provider", "type"},
		),
	}

	registry.MustRegister(um.healthy, um.latency, um.errors, um.tokens)
	return um
}

// UpdateHealth sets the health gauge for provider.
func (um *UpstreamMetrics) UpdateHealth(provider string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	um.healthy.WithLabelValues(provider).Set(value)
}

// RecordLatency records the latency of one call in seconds.
func (um *UpstreamMetrics) RecordLatency(provider string, latencySeconds float64) {
	um.latency.WithLabelValues(provider).Observe(latencySeconds)
}

// RecordError records a failure of the given kind.
func (um *UpstreamMetrics) RecordError(provider, kind string) {
	um.errors.WithLabelValues(provider, kind).Inc()
}

// RecordTokens records prompt and completion token counts.
func (um *UpstreamMetrics) RecordTokens(provider string, prompt, completion int) {
	if prompt > 0 {
		um.tokens.WithLabelValues(provider, "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		um.tokens.WithLabelValues(provider, "completion").Add(float64(completion))
	}
}
