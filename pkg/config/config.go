package config

import "time"

// Config is the root configuration for the AYA Companion backend.
// It is loaded from a YAML file, completed with defaults, overridden by
// environment variables and validated before use.
type Config struct {
	// Environment names the deployment, reported by the health endpoint.
	// Default: "development"
	Environment string `yaml:"environment"`

	// Server contains HTTP server configuration including listen address,
	// timeouts and CORS.
	Server ServerConfig `yaml:"server"`

	// Model contains the connection to the hosted model endpoint and the
	// default generation parameters.
	Model ModelConfig `yaml:"model"`

	// Sessions contains in-memory conversation store configuration.
	Sessions SessionsConfig `yaml:"sessions"`

	// Privacy contains PII screening configuration for user messages.
	Privacy PrivacyConfig `yaml:"privacy"`

	// Telemetry contains configuration for logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// ListenAddress is the address the HTTP server binds to.
	// Default: "0.0.0.0:8000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must exceed the model timeout.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request on a
	// keep-alive connection.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// RequestTimeout bounds each API request handled by the server.
	// Default: 45s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORS contains cross-origin configuration for the browser client.
	CORS CORSConfig `yaml:"cors"`

	// Admin protects the session operator endpoints.
	Admin AdminConfig `yaml:"admin"`
}

// AdminConfig configures access to the operator endpoints
// (/api/session/stats and /api/session/cleanup).
type AdminConfig struct {
	// APIKeys lists the keys accepted on operator endpoints. When empty the
	// endpoints are open.
	// Environment: AYA_SERVER_ADMIN_API_KEYS (comma separated)
	APIKeys []APIKeyConfig `yaml:"api_keys"`
}

// APIKeyConfig is a single operator key.
type APIKeyConfig struct {
	// Name identifies the key in logs.
	Name string `yaml:"name"`

	// Key is the secret value. At least 16 characters.
	Key string `yaml:"key"`

	// Disabled rejects the key without removing it.
	Disabled bool `yaml:"disabled"`
}

// CORSConfig contains Cross-Origin Resource Sharing configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are sent.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins lists the origins allowed to call the API.
	// Default: ["http://localhost:3000"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods lists the allowed HTTP methods.
	// Default: ["GET", "POST", "DELETE", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders lists the allowed request headers.
	// Default: ["Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// AllowCredentials controls the Access-Control-Allow-Credentials header.
	// Default: true
	AllowCredentials bool `yaml:"allow_credentials"`

	// MaxAge is how long preflight results may be cached, in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`
}

// ModelConfig configures the hosted model endpoint.
type ModelConfig struct {
	// Name identifies the upstream in logs, errors and metrics.
	// Default: "databricks"
	Name string `yaml:"name"`

	// Endpoint is the serving endpoint URL requests are posted to.
	// Required. Environment: DATABRICKS_ENDPOINT
	Endpoint string `yaml:"endpoint"`

	// Token is the bearer credential. Required unless TokenFile is set.
	// Environment: DATABRICKS_PAT
	Token string `yaml:"token"`

	// TokenFile is a file holding the bearer credential, re-read when it
	// changes. It takes precedence over Token.
	// Environment: AYA_MODEL_TOKEN_FILE
	TokenFile string `yaml:"token_file"`

	// Timeout is the per-request time budget.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// MaxIdleConns is the size of the idle connection pool.
	// Default: 10
	MaxIdleConns int `yaml:"max_idle_conns"`

	// FallbackModel is reported when a response names no model.
	// Default: "claude-3-sonnet"
	FallbackModel string `yaml:"fallback_model"`

	// MaxTokens is the default generation limit.
	// Default: 1000
	MaxTokens int `yaml:"max_tokens"`

	// Temperature is the default sampling temperature. Nil means default.
	// Default: 0.7
	Temperature *float64 `yaml:"temperature"`

	// TopP is the default nucleus sampling value. Nil means default.
	// Default: 0.9
	TopP *float64 `yaml:"top_p"`
}

// SessionsConfig configures the in-memory session store.
type SessionsConfig struct {
	// MaxMessages is the conversation window kept per session.
	// Default: 20
	MaxMessages int `yaml:"max_messages"`

	// MaxAge is how long a session may sit idle before cleanup removes it.
	// Default: 24h
	MaxAge time.Duration `yaml:"max_age"`

	// CleanupSchedule is the cron expression for idle session cleanup.
	// Empty disables scheduled cleanup.
	// Default: "@every 1h"
	CleanupSchedule string `yaml:"cleanup_schedule"`

	// RateLimit limits chat messages per session.
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig configures the per-session token bucket.
type RateLimitConfig struct {
	// Enabled controls whether chat requests are rate limited.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// RequestsPerMinute is the sustained refill rate.
	// Default: 20
	RequestsPerMinute int `yaml:"requests_per_minute"`

	// Burst is the bucket capacity.
	// Default: 5
	Burst int `yaml:"burst"`
}

// PrivacyConfig configures PII screening of user messages.
type PrivacyConfig struct {
	// Enabled controls whether user messages are screened and redacted
	// before they are stored or sent to the model.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Patterns adds detection patterns to the built-in set.
	Patterns []RedactPattern `yaml:"patterns"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactPII enables automatic PII redaction in logs.
	// Default: true
	RedactPII bool `yaml:"redact_pii"`

	// RedactPatterns contains custom PII redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom PII redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "aya"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "companion"
	Subsystem string `yaml:"subsystem"`

	// LatencyBuckets defines histogram buckets for upstream latency (seconds).
	// Default: [0.25, 0.5, 1, 2, 5, 10, 20, 30]
	LatencyBuckets []float64 `yaml:"latency_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "aya-companion"
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure"`
}
