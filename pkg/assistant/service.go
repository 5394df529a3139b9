package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"aya-hq/companion/pkg/config"
	"aya-hq/companion/pkg/locale"
	"aya-hq/companion/pkg/prompt"
	"aya-hq/companion/pkg/providers"
	"aya-hq/companion/pkg/telemetry/metrics"
	"aya-hq/companion/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// Default generation parameters.
const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
	DefaultTopP        = 0.9
)

// Health probe parameters.
const (
	probeSystemMessage = "You are a test assistant. Respond with only 'OK'."
	probeUserMessage   = "Health check"
	probeMaxTokens     = 10
)

// Poster sends a JSON payload to the model endpoint. *providers.Transport
// implements it.
type Poster interface {
	Name() string
	Post(ctx context.Context, payload any) (*providers.RawResponse, error)
}

// RequestOptions overrides the generation parameters of one call. Nil fields
// use the service defaults.
type RequestOptions struct {
	MaxTokens   *int
	Temperature *float64
	TopP        *float64
}

// Config holds the service defaults.
type Config struct {
	// MaxTokens is the default generation limit.
	// Default: 1000
	MaxTokens int

	// Temperature is the default sampling temperature.
	// Default: 0.7
	Temperature float64

	// TopP is the default nucleus sampling value.
	// Default: 0.9
	TopP float64

	// FallbackModel is reported when a reply names no model.
	// Default: "claude-3-sonnet"
	FallbackModel string

	// Timeout is reported on TimeoutError.
	// Default: 30s
	Timeout time.Duration
}

// ConfigFromModel builds a Config from the model section.
func ConfigFromModel(cfg config.ModelConfig) Config {
	c := Config{
		MaxTokens:     cfg.MaxTokens,
		FallbackModel: cfg.FallbackModel,
		Timeout:       cfg.Timeout,
		Temperature:   DefaultTemperature,
		TopP:          DefaultTopP,
	}
	if cfg.Temperature != nil {
		c.Temperature = *cfg.Temperature
	}
	if cfg.TopP != nil {
		c.TopP = *cfg.TopP
	}
	return c
}

// HealthStatus is the result of a health probe.
type HealthStatus struct {
	// Status is "healthy" or "unhealthy"
	Status string `json:"status"`

	Timestamp time.Time `json:"timestamp"`

	// StatusCode is the upstream HTTP status, when one was received
	StatusCode int `json:"status_code,omitempty"`

	// Error describes why the probe failed
	Error string `json:"error,omitempty"`
}

// Health statuses.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Healthy reports whether the probe succeeded.
func (h HealthStatus) Healthy() bool { return h.Status == StatusHealthy }

// Service turns a conversation history into a model reply. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	poster     Poster
	config     Config
	classifier providers.Classifier
	normalizer providers.Normalizer
	metrics    *metrics.Collector
	tracer     *tracing.Tracer
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records upstream latency, errors, tokens and health.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Service) { s.metrics = c }
}

// WithTracer wraps every call in a span.
func WithTracer(t *tracing.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithClock replaces time.Now for reply and health timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
		s.normalizer.Now = now
	}
}

// New creates a Service posting through poster. Zero Config fields take
// their defaults.
func New(poster Poster, cfg Config, opts ...Option) *Service {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.FallbackModel == "" {
		cfg.FallbackModel = providers.DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = providers.DefaultTimeout
	}

	s := &Service{
		poster:     poster,
		config:     cfg,
		classifier: providers.Classifier{Provider: poster.Name(), Timeout: cfg.Timeout},
		normalizer: providers.Normalizer{Provider: poster.Name(), FallbackModel: cfg.FallbackModel},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendMessage resolves loc, formats history behind the system message, posts
// it and normalizes the reply. Every failure is returned as a classified
// error; the raw transport error is only reachable through Unwrap.
func (s *Service) SendMessage(ctx context.Context, history []providers.Message, loc string, opts RequestOptions) (*providers.NormalizedReply, error) {
	resolved := locale.Resolve(loc)

	ctx, span := s.tracer.Start(ctx, "assistant.send")
	defer span.End()
	span.SetAttributes(
		attribute.String(tracing.AttrProvider, s.poster.Name()),
		attribute.String(tracing.AttrLocale, string(resolved.Code)),
	)

	topP := s.config.TopP
	payload := providers.Payload{
		Messages:    prompt.Format(history, resolved.Instruction),
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
		TopP:        &topP,
		Stream:      false,
	}
	if opts.MaxTokens != nil {
		payload.MaxTokens = *opts.MaxTokens
	}
	if opts.Temperature != nil {
		payload.Temperature = *opts.Temperature
	}
	if opts.TopP != nil {
		payload.TopP = opts.TopP
	}

	raw, err := s.post(ctx, payload)
	if err != nil {
		classified := s.classifier.Classify(err)
		kind := providers.KindOf(classified)
		s.metrics.RecordUpstreamError(s.poster.Name(), string(kind))
		tracing.SetError(span, classified, string(kind))
		slog.WarnContext(ctx, "model request failed",
			"provider", s.poster.Name(),
			"kind", kind,
			"error", classified,
		)
		return nil, classified
	}

	reply, err := s.normalizer.Normalize(raw.Body)
	if err != nil {
		s.metrics.RecordUpstreamError(s.poster.Name(), string(providers.KindOf(err)))
		tracing.SetError(span, err, string(providers.KindOf(err)))
		return nil, err
	}

	if reply.Usage != nil {
		s.metrics.RecordTokens(s.poster.Name(), reply.Usage.PromptTokens, reply.Usage.CompletionTokens)
		span.SetAttributes(
			attribute.Int(tracing.AttrTokensPrompt, reply.Usage.PromptTokens),
			attribute.Int(tracing.AttrTokensOutput, reply.Usage.CompletionTokens),
		)
	}
	span.SetAttributes(attribute.String(tracing.AttrModel, reply.Model))

	slog.DebugContext(ctx, "model reply received",
		"provider", s.poster.Name(),
		"model", reply.Model,
		"messages", len(payload.Messages),
	)

	return reply, nil
}

// HealthCheck sends a fixed two-message probe. It never returns an error;
// any failure yields an unhealthy status carrying the error message.
func (s *Service) HealthCheck(ctx context.Context) HealthStatus {
	ctx, span := s.tracer.Start(ctx, "assistant.health")
	defer span.End()

	payload := providers.Payload{
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: probeSystemMessage},
			{Role: providers.RoleUser, Content: probeUserMessage},
		},
		MaxTokens:   probeMaxTokens,
		Temperature: 0,
	}

	status := HealthStatus{Status: StatusHealthy}
	raw, err := s.probe(ctx, payload)
	status.Timestamp = s.now().UTC()
	if raw != nil {
		status.StatusCode = raw.StatusCode
	}
	if err != nil {
		status.Status = StatusUnhealthy
		status.Error = err.Error()
		tracing.SetError(span, err, string(providers.KindOf(s.classifier.Classify(err))))
		slog.WarnContext(ctx, "model endpoint health check failed",
			"provider", s.poster.Name(),
			"error", err,
		)
	}

	s.metrics.UpdateUpstreamHealth(s.poster.Name(), status.Healthy())
	return status
}

// probe posts the health payload, turning a panic in the poster into an
// error.
func (s *Service) probe(ctx context.Context, payload providers.Payload) (raw *providers.RawResponse, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			raw, err = nil, fmt.Errorf("health probe panicked: %v", rec)
		}
	}()
	return s.post(ctx, payload)
}

// Check adapts HealthCheck to a readiness check function.
func (s *Service) Check(ctx context.Context) error {
	if h := s.HealthCheck(ctx); !h.Healthy() {
		return errors.New(h.Error)
	}
	return nil
}

// Provider returns the upstream name.
func (s *Service) Provider() string {
	return s.poster.Name()
}

func (s *Service) post(ctx context.Context, payload providers.Payload) (*providers.RawResponse, error) {
	ctx, span := s.tracer.Start(ctx, "upstream.post")
	defer span.End()

	start := time.Now()
	raw, err := s.poster.Post(ctx, payload)
	s.metrics.RecordUpstreamLatency(s.poster.Name(), time.Since(start))
	if raw != nil {
		span.SetAttributes(attribute.Int("http.status_code", raw.StatusCode))
	}
	return raw, err
}
