package metrics

import (
	"aya-hq/companion/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// PrivacyMetrics tracks PII found in user messages.
//
// Metrics:
//   - aya_companion_pii_detections_total: detections by pattern name
type PrivacyMetrics struct {
	detections *prometheus.CounterVec
}

// NewPrivacyMetrics creates and registers privacy metrics with the provided registry.
func NewPrivacyMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *PrivacyMetrics {
	pm := &PrivacyMetrics{
		detections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "pii_detections_total",
				Help:      "Total number of PII detections in user messages",
			},
			[]string{"type"},
		),
	}

	registry.MustRegister(pm.detections)
	return pm
}

// RecordDetection counts one detection of piiType.
func (pm *PrivacyMetrics) RecordDetection(piiType string) {
	pm.detections.WithLabelValues(piiType).Inc()
}
