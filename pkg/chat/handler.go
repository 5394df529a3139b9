package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"aya-hq/companion/pkg/assistant"
	"aya-hq/companion/pkg/locale"
	"aya-hq/companion/pkg/privacy"
	"aya-hq/companion/pkg/providers"
	"aya-hq/companion/pkg/session"
	"aya-hq/companion/pkg/telemetry/logging"
	"aya-hq/companion/pkg/telemetry/metrics"
	"aya-hq/companion/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// MaxMessageLength is the longest accepted user message, in characters.
const MaxMessageLength = 2000

// Request validation errors.
var (
	ErrEmptyMessage   = errors.New("message must not be empty")
	ErrMessageTooLong = fmt.Errorf("message must be at most %d characters", MaxMessageLength)
)

// Sender produces a model reply for a conversation. *assistant.Service
// implements it.
type Sender interface {
	SendMessage(ctx context.Context, history []providers.Message, loc string, opts assistant.RequestOptions) (*providers.NormalizedReply, error)
}

// Request is a user message.
type Request struct {
	// SessionID names the conversation. Empty starts a new one.
	SessionID string `json:"session_id"`

	// Message is the user's text, 1 to MaxMessageLength characters.
	Message string `json:"message"`

	// Language is the preferred reply language. Unsupported tags fall back
	// to English.
	Language string `json:"language"`
}

// Validate checks the message length.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(r.Message) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

// Response is the assistant's answer, or a localized apology when no answer
// could be produced.
type Response struct {
	SessionID string     `json:"session_id"`
	Message   string     `json:"message"`
	Language  string     `json:"language"`
	Actions   []Action   `json:"actions"`
	Citations []Citation `json:"citations,omitempty"`

	// PIIDetection is set when personal information was removed from the
	// user message.
	PIIDetection *privacy.Detection `json:"pii_detection,omitempty"`

	// ErrorKind is set when Message is an apology. Clients may retry on
	// rate_limit, timeout and upstream_unavailable.
	ErrorKind providers.ErrorKind `json:"error_kind,omitempty"`

	Timestamp        time.Time `json:"timestamp"`
	ProcessingTimeMS int64     `json:"processing_time_ms"`
}

// Failed reports whether the response carries an apology instead of a reply.
func (r Response) Failed() bool {
	return r.ErrorKind != ""
}

// Handler runs one chat turn: screen, store, ask the model, store, decorate.
type Handler struct {
	store    *session.Store
	sender   Sender
	screener *privacy.Screener
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	now      func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithMetrics records chat outcomes on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(h *Handler) { h.metrics = c }
}

// WithTracer wraps each turn in a span.
func WithTracer(t *tracing.Tracer) Option {
	return func(h *Handler) { h.tracer = t }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// NewHandler creates a chat handler. screener may be nil to store messages
// as written.
func NewHandler(store *session.Store, sender Sender, screener *privacy.Screener, opts ...Option) *Handler {
	h := &Handler{
		store:    store,
		sender:   sender,
		screener: screener,
		tracer:   tracing.Noop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Send handles one user message. The only errors are request validation
// errors; model failures produce a Response with ErrorKind set and the
// user's turn kept in the session.
func (h *Handler) Send(ctx context.Context, req Request) (Response, error) {
	if err := req.Validate(); err != nil {
		return Response{}, err
	}

	start := h.now()
	loc := string(locale.Resolve(req.Language).Code)

	id := h.store.Create(req.SessionID)
	h.store.SetLocale(id, loc)

	ctx = logging.WithSession(ctx, id)
	ctx = logging.WithLocale(ctx, loc)
	ctx, span := h.tracer.Start(ctx, "chat.send")
	defer span.End()
	span.SetAttributes(
		attribute.String(tracing.AttrSession, id),
		attribute.String(tracing.AttrLocale, loc),
	)

	text, detection := h.screener.Screen(req.Message, loc)
	h.store.Append(id, providers.RoleUser, text)

	resp := Response{SessionID: id, Language: loc}
	if detection.HasPII {
		resp.PIIDetection = &detection
		span.SetAttributes(attribute.Bool(tracing.AttrPIIDetected, true))
		slog.InfoContext(ctx, "personal information removed from message",
			"types", detection.DetectedTypes,
		)
	}

	reply, err := h.sender.SendMessage(ctx, h.store.Context(id), loc, assistant.RequestOptions{})
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
		resp.Message = ErrorMessage(loc)
		resp.Actions = []Action{CallAction(loc)}
		resp.ErrorKind = providers.KindOf(err)
		slog.InfoContext(ctx, "answered with apology", "kind", resp.ErrorKind)
	} else {
		h.store.Append(id, providers.RoleAssistant, reply.Content)
		resp.Message = reply.Content
		resp.Actions = Actions(reply.Content, loc)
		resp.Citations = []Citation{ProgramCitation(loc)}
	}

	end := h.now()
	resp.Timestamp = end.UTC()
	resp.ProcessingTimeMS = end.Sub(start).Milliseconds()
	h.metrics.RecordChat(loc, outcome, end.Sub(start))

	return resp, nil
}
