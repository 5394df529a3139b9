package metrics

import (
	"sync"
	"time"

	"aya-hq/companion/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns every Prometheus metric exported by the companion backend.
// All recording methods are safe on a nil *Collector and are no-ops when
// metrics are disabled, so callers never need to guard them.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	chatMetrics     *ChatMetrics
	upstreamMetrics *UpstreamMetrics
	sessionMetrics  *SessionMetrics
	privacyMetrics  *PrivacyMetrics

	// Custom pattern names become label values; cap them.
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a collector registered on registry. A nil registry
// gets a fresh private one.
//
// Example:
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	router.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = append([]float64(nil), config.DefaultLatencyBuckets...)
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(100),
	}

	c.chatMetrics = NewChatMetrics(cfg, registry)
	c.upstreamMetrics = NewUpstreamMetrics(cfg, registry)
	c.sessionMetrics = NewSessionMetrics(cfg, registry)
	c.privacyMetrics = NewPrivacyMetrics(cfg, registry)

	return c
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordChat records a handled chat message.
//
// Parameters:
//   - locale: resolved locale code
//   - outcome: "success", "error" or "rejected"
//   - duration: total handling time
func (c *Collector) RecordChat(locale, outcome string, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.chatMetrics.Record(locale, outcome, duration)
}

// RecordUpstreamLatency records the duration of one call to the model endpoint.
func (c *Collector) RecordUpstreamLatency(provider string, latency time.Duration) {
	if !c.enabled() {
		return
	}
	c.upstreamMetrics.RecordLatency(provider, latency.Seconds())
}

// RecordUpstreamError records a classified upstream failure.
//
// Parameters:
//   - provider: upstream name
//   - kind: error kind ("auth", "rate_limit", "upstream_unavailable", "timeout", "unknown")
func (c *Collector) RecordUpstreamError(provider, kind string) {
	if !c.enabled() {
		return
	}
	c.upstreamMetrics.RecordError(provider, kind)
}

// RecordTokens records the token usage reported by the model.
func (c *Collector) RecordTokens(provider string, prompt, completion int) {
	if !c.enabled() {
		return
	}
	c.upstreamMetrics.RecordTokens(provider, prompt, completion)
}

// UpdateUpstreamHealth sets the health gauge, 1 for healthy and 0 otherwise.
func (c *Collector) UpdateUpstreamHealth(provider string, healthy bool) {
	if !c.enabled() {
		return
	}
	c.upstreamMetrics.UpdateHealth(provider, healthy)
}

// SetActiveSessions sets the number of sessions held in memory.
func (c *Collector) SetActiveSessions(n int) {
	if !c.enabled() {
		return
	}
	c.sessionMetrics.SetActive(n)
}

// RecordSessionsRemoved records sessions removed for reason
// ("expired", "deleted").
func (c *Collector) RecordSessionsRemoved(reason string, n int) {
	if !c.enabled() {
		return
	}
	c.sessionMetrics.RecordRemoved(reason, n)
}

// RecordRateLimited records a chat request rejected by the rate limiter.
func (c *Collector) RecordRateLimited() {
	if !c.enabled() {
		return
	}
	c.sessionMetrics.RecordRateLimited()
}

// RecordPIIDetections records one detection per pattern name.
func (c *Collector) RecordPIIDetections(types []string) {
	if !c.enabled() {
		return
	}
	for _, t := range types {
		if !c.cardinalityLimiter.Allow(t) {
			t = "other"
		}
		c.privacyMetrics.RecordDetection(t)
	}
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether labelSet may be used: it is already known or the
// limit has not been reached.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[labelSet]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
