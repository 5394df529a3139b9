package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"aya-hq/companion/pkg/security/secrets"
	"aya-hq/companion/pkg/telemetry/tracing"
)

const (
	// DefaultTimeout is the per-request time budget.
	DefaultTimeout = 30 * time.Second

	// DefaultName is the provider name used in errors and logs.
	DefaultName = "databricks"

	// maxBodySize caps how much of an upstream body is read.
	maxBodySize = 10 << 20
)

// TransportConfig configures a Transport.
type TransportConfig struct {
	// Name identifies the upstream in errors and logs.
	// Default: "databricks"
	Name string

	// Endpoint is the full URL requests are posted to. Required.
	Endpoint string

	// Token is the bearer credential. Required unless Credentials is set.
	Token string

	// Credentials supplies the bearer credential per request. It takes
	// precedence over Token.
	Credentials secrets.TokenSource

	// Timeout is the per-request time budget.
	// Default: 30s
	Timeout time.Duration

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 10
	MaxIdleConns int

	// IdleConnTimeout is how long an idle connection is kept.
	// Default: 90s
	IdleConnTimeout time.Duration
}

// Transport owns the authenticated HTTP connection to the model endpoint.
// It does not retry.
type Transport struct {
	name        string
	endpoint    string
	credentials secrets.TokenSource
	timeout     time.Duration
	client      *http.Client
}

// NewTransport validates cfg and returns a ready Transport. A missing
// endpoint or token yields a *ConfigError.
func NewTransport(cfg TransportConfig) (*Transport, error) {
	name := cfg.Name
	if name == "" {
		name = DefaultName
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, &ConfigError{Provider: name, Field: "endpoint", Message: "endpoint URL is required"}
	}
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &ConfigError{Provider: name, Field: "endpoint", Message: fmt.Sprintf("invalid endpoint URL %q", endpoint)}
	}

	credentials := cfg.Credentials
	if credentials == nil {
		token := secrets.StaticToken(cfg.Token)
		if _, err := token.Token(context.Background()); err != nil {
			return nil, &ConfigError{Provider: name, Field: "token", Message: "bearer token is required"}
		}
		credentials = token
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 10
	}
	idle := cfg.IdleConnTimeout
	if idle <= 0 {
		idle = 90 * time.Second
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        maxIdle,
		MaxIdleConnsPerHost: maxIdle,
		IdleConnTimeout:     idle,
		ForceAttemptHTTP2:   true,
	}

	slog.Info("model transport initialized",
		"provider", name,
		"host", u.Host,
		"timeout", timeout,
		"credentials", credentials.Source(),
	)

	return &Transport{
		name:        name,
		endpoint:    endpoint,
		credentials: credentials,
		timeout:     timeout,
		client:      &http.Client{Transport: transport, Timeout: timeout},
	}, nil
}

// Name returns the configured provider name.
func (t *Transport) Name() string { return t.name }

// Timeout returns the per-request time budget.
func (t *Transport) Timeout() time.Duration { return t.timeout }

// Classifier returns a Classifier bound to this transport's name and timeout.
func (t *Transport) Classifier() Classifier {
	return Classifier{Provider: t.name, Timeout: t.timeout}
}

// Post sends payload as JSON to the endpoint. A non-2xx status returns the
// response together with a *StatusError. Transport failures are returned
// unclassified.
func (t *Transport) Post(ctx context.Context, payload any) (*RawResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	token, err := t.credentials.Token(ctx)
	if err != nil {
		return nil, &AuthError{Provider: t.name, Message: fmt.Sprintf("credential unavailable: %v", err)}
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	tracing.Inject(ctx, req.Header)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}

	raw := &RawResponse{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return raw, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(data), 512),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return raw, nil
}

// parseRetryAfter parses the Retry-After header value.
// It supports both delay-seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}

	return 0
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
