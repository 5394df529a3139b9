package metrics

import (
	"aya-hq/companion/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// SessionMetrics tracks the in-memory session store.
//
// Metrics:
//   - aya_companion_sessions_active: sessions currently held
//   - aya_companion_sessions_removed_total: removed sessions by reason
//   - aya_companion_rate_limited_total: chat requests rejected by the rate limiter
type SessionMetrics struct {
	active      prometheus.Gauge
	removed     *prometheus.CounterVec
	rateLimited prometheus.Counter
}

// NewSessionMetrics creates and registers session metrics with the provided registry.
func NewSessionMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *SessionMetrics {
	sm := &SessionMetrics{
		active: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "sessions_active",
				Help:      "Number of sessions held in memory",
			},
		),
		removed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "sessions_removed_total",
				Help:      "Total number of sessions removed",
			},
			[]string{"reason"},
		),
		rateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rate_limited_total",
				Help:      "Total number of chat requests rejected by the rate limiter",
			},
		),
	}

	registry.MustRegister(sm.active, sm.removed, sm.rateLimited)
	return sm
}

// SetActive sets the active session gauge.
func (sm *SessionMetrics) SetActive(n int) {
	sm.active.Set(float64(n))
}

// RecordRemoved adds n removed sessions for reason.
func (sm *SessionMetrics) RecordRemoved(reason string, n int) {
	if n > 0 {
		sm.removed.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordRateLimited counts one rejected request.
func (sm *SessionMetrics) RecordRateLimited() {
	sm.rateLimited.Inc()
}
