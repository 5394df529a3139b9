package metrics

import (
	"time"

	"aya-hq/companion/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Chat outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
)

// ChatMetrics tracks handled chat messages.
//
// Metrics:
//   - aya_companion_chat_requests_total: messages by locale and outcome
//   - aya_companion_chat_duration_seconds: end-to-end handling time
type ChatMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewChatMetrics creates and registers chat metrics with the provided registry.
func NewChatMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *ChatMetrics {
	cm := &ChatMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "chat_requests_total",
				Help:      "Total number of chat messages handled",
			},
			[]string{"locale", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "chat_duration_seconds",
				Help:      "Time to handle a chat message in seconds",
				Buckets:   cfg.LatencyBuckets,
			},
			[]string{"locale"},
		),
	}

	registry.MustRegister(cm.requests, cm.duration)
	return cm
}

// Record records one handled message.
func (cm *ChatMetrics) Record(locale, outcome string, duration time.Duration) {
	cm.requests.WithLabelValues(locale, outcome).Inc()
	cm.duration.WithLabelValues(locale).Observe(duration.Seconds())
}
