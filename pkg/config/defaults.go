package config

import (
	"fmt"
	"time"
)

// Default values for configuration fields.
const (
	DefaultEnvironment = "development"

	// Server defaults
	DefaultListenAddress   = "0.0.0.0:8000"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultRequestTimeout  = 45 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// CORS defaults
	DefaultCORSEnabled          = true
	DefaultCORSOrigin           = "http://localhost:3000"
	DefaultCORSMaxAge           = 3600 // 1 hour
	DefaultCORSAllowCredentials = true

	// MinAPIKeyLength is the shortest accepted operator key.
	MinAPIKeyLength = 16

	// Model defaults
	DefaultModelName         = "databricks"
	DefaultModelTimeout      = 30 * time.Second
	DefaultModelMaxIdleConns = 10
	DefaultFallbackModel     = "claude-3-sonnet"
	DefaultMaxTokens         = 1000
	DefaultTemperature       = 0.7
	DefaultTopP              = 0.9

	// Session defaults
	DefaultSessionMaxMessages     = 20
	DefaultSessionMaxAge          = 24 * time.Hour
	DefaultSessionCleanupSchedule = "@every 1h"
	DefaultRateLimitEnabled       = true
	DefaultRateLimitPerMinute     = 20
	DefaultRateLimitBurst         = 5

	// Privacy defaults
	DefaultPrivacyEnabled = true

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultLoggingRedactPII = true
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "aya"
	DefaultMetricsSubsystem = "companion"
	DefaultTracingEnabled   = false
	DefaultTracingService   = "aya-companion"
	DefaultTracingRatio     = 1.0
	DefaultTracingInsecure  = true
)

// Default slice values.
var (
	DefaultCORSMethods    = []string{"GET", "POST", "DELETE", "OPTIONS"}
	DefaultCORSHeaders    = []string{"Content-Type", "X-Request-ID"}
	DefaultLatencyBuckets = []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30}
)

// NewDefault returns a Config with every boolean switch set to its default.
// YAML is decoded on top of it, so switches left out of the file keep their
// defaults; ApplyDefaults fills in the remaining zero values.
func NewDefault() *Config {
	cfg := &Config{}
	cfg.Server.CORS.Enabled = DefaultCORSEnabled
	cfg.Server.CORS.AllowCredentials = DefaultCORSAllowCredentials
	cfg.Sessions.RateLimit.Enabled = DefaultRateLimitEnabled
	cfg.Privacy.Enabled = DefaultPrivacyEnabled
	cfg.Telemetry.Logging.RedactPII = DefaultLoggingRedactPII
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Telemetry.Tracing.Enabled = DefaultTracingEnabled
	cfg.Telemetry.Tracing.Insecure = DefaultTracingInsecure
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets default values for all zero-valued fields. Booleans are
// left untouched; see NewDefault.
func ApplyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	applyCORSDefaults(&cfg.Server.CORS)

	for i := range cfg.Server.Admin.APIKeys {
		if cfg.Server.Admin.APIKeys[i].Name == "" {
			cfg.Server.Admin.APIKeys[i].Name = fmt.Sprintf("key-%d", i+1)
		}
	}

	// Model defaults
	if cfg.Model.Name == "" {
		cfg.Model.Name = DefaultModelName
	}
	if cfg.Model.Timeout == 0 {
		cfg.Model.Timeout = DefaultModelTimeout
	}
	if cfg.Model.MaxIdleConns == 0 {
		cfg.Model.MaxIdleConns = DefaultModelMaxIdleConns
	}
	if cfg.Model.FallbackModel == "" {
		cfg.Model.FallbackModel = DefaultFallbackModel
	}
	if cfg.Model.MaxTokens == 0 {
		cfg.Model.MaxTokens = DefaultMaxTokens
	}
	if cfg.Model.Temperature == nil {
		v := DefaultTemperature
		cfg.Model.Temperature = &v
	}
	if cfg.Model.TopP == nil {
		v := DefaultTopP
		cfg.Model.TopP = &v
	}

	// Session defaults
	if cfg.Sessions.MaxMessages == 0 {
		cfg.Sessions.MaxMessages = DefaultSessionMaxMessages
	}
	if cfg.Sessions.MaxAge == 0 {
		cfg.Sessions.MaxAge = DefaultSessionMaxAge
	}
	if cfg.Sessions.CleanupSchedule == "" {
		cfg.Sessions.CleanupSchedule = DefaultSessionCleanupSchedule
	}
	if cfg.Sessions.RateLimit.RequestsPerMinute == 0 {
		cfg.Sessions.RateLimit.RequestsPerMinute = DefaultRateLimitPerMinute
	}
	if cfg.Sessions.RateLimit.Burst == 0 {
		cfg.Sessions.RateLimit.Burst = DefaultRateLimitBurst
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.LatencyBuckets) == 0 {
		cfg.Telemetry.Metrics.LatencyBuckets = append([]float64(nil), DefaultLatencyBuckets...)
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingRatio
	}
}

func applyCORSDefaults(cors *CORSConfig) {
	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = []string{DefaultCORSOrigin}
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = append([]string(nil), DefaultCORSMethods...)
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = append([]string(nil), DefaultCORSHeaders...)
	}
	if cors.MaxAge == 0 {
		cors.MaxAge = DefaultCORSMaxAge
	}
}
