package config

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "model.endpoint").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateModel(&cfg.Model)...)
	errs = append(errs, validateSessions(&cfg.Sessions)...)
	errs = append(errs, validatePatterns("privacy.patterns", cfg.Privacy.Patterns)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{Field: "server.listen_address", Message: "listen address is required"})
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid listen address %q: %v", cfg.ListenAddress, err),
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.read_timeout", Message: "must not be negative"})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.write_timeout", Message: "must not be negative"})
	}
	if cfg.RequestTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.request_timeout", Message: "must not be negative"})
	}

	if cfg.CORS.Enabled {
		for i, origin := range cfg.CORS.AllowedOrigins {
			if origin == "*" {
				if cfg.CORS.AllowCredentials {
					errs = append(errs, FieldError{
						Field:   fmt.Sprintf("server.cors.allowed_origins[%d]", i),
						Message: "wildcard origin cannot be combined with allow_credentials",
					})
				}
				continue
			}
			if u, err := url.Parse(origin); err != nil || u.Scheme == "" || u.Host == "" {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("server.cors.allowed_origins[%d]", i),
					Message: fmt.Sprintf("invalid origin %q", origin),
				})
			}
		}
	}

	for i, k := range cfg.Admin.APIKeys {
		if len(strings.TrimSpace(k.Key)) < MinAPIKeyLength {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("server.admin.api_keys[%d].key", i),
				Message: fmt.Sprintf("must be at least %d characters", MinAPIKeyLength),
			})
		}
	}

	return errs
}

func validateModel(cfg *ModelConfig) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(cfg.Endpoint) == "" {
		errs = append(errs, FieldError{
			Field:   "model.endpoint",
			Message: "endpoint URL is required (set DATABRICKS_ENDPOINT or AYA_MODEL_ENDPOINT)",
		})
	} else if u, err := url.Parse(cfg.Endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, FieldError{
			Field:   "model.endpoint",
			Message: fmt.Sprintf("invalid endpoint URL %q: must be an absolute http(s) URL", cfg.Endpoint),
		})
	}

	if strings.TrimSpace(cfg.Token) == "" && strings.TrimSpace(cfg.TokenFile) == "" {
		errs = append(errs, FieldError{
			Field:   "model.token",
			Message: "bearer token is required (set DATABRICKS_PAT, AYA_MODEL_TOKEN or model.token_file)",
		})
	}

	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{Field: "model.timeout", Message: "must not be negative"})
	}
	if cfg.MaxTokens < 1 {
		errs = append(errs, FieldError{Field: "model.max_tokens", Message: "must be at least 1"})
	}
	if cfg.Temperature != nil && (*cfg.Temperature < 0 || *cfg.Temperature > 2) {
		errs = append(errs, FieldError{Field: "model.temperature", Message: "must be between 0.0 and 2.0"})
	}
	if cfg.TopP != nil && (*cfg.TopP < 0 || *cfg.TopP > 1) {
		errs = append(errs, FieldError{Field: "model.top_p", Message: "must be between 0.0 and 1.0"})
	}

	return errs
}

func validateSessions(cfg *SessionsConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxMessages < 2 {
		errs = append(errs, FieldError{Field: "sessions.max_messages", Message: "must be at least 2"})
	}
	if cfg.MaxAge < 0 {
		errs = append(errs, FieldError{Field: "sessions.max_age", Message: "must not be negative"})
	}
	if cfg.CleanupSchedule != "" {
		if _, err := cron.ParseStandard(cfg.CleanupSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "sessions.cleanup_schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.CleanupSchedule, err),
			})
		}
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RequestsPerMinute < 1 {
			errs = append(errs, FieldError{Field: "sessions.rate_limit.requests_per_minute", Message: "must be at least 1"})
		}
		if cfg.RateLimit.Burst < 1 {
			errs = append(errs, FieldError{Field: "sessions.rate_limit.burst", Message: "must be at least 1"})
		}
	}

	return errs
}

func validatePatterns(prefix string, patterns []RedactPattern) []FieldError {
	var errs []FieldError
	for i, p := range patterns {
		field := fmt.Sprintf("%s[%d]", prefix, i)
		if p.Name == "" {
			errs = append(errs, FieldError{Field: field + ".name", Message: "pattern name is required"})
		}
		if _, err := regexp.Compile(p.Pattern); err != nil || p.Pattern == "" {
			errs = append(errs, FieldError{Field: field + ".pattern", Message: fmt.Sprintf("invalid regular expression %q", p.Pattern)})
		}
	}
	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}
	errs = append(errs, validatePatterns("telemetry.logging.redact_patterns", cfg.Logging.RedactPatterns)...)

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with '/' when metrics are enabled",
		})
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	return errs
}
