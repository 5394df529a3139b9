package providers

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind is the caller-facing category of an upstream failure.
type ErrorKind string

// Error kinds returned by Kind. The set is closed.
const (
	KindAuth                ErrorKind = "auth"
	KindRateLimit           ErrorKind = "rate_limit"
	KindUpstreamUnavailable ErrorKind = "upstream_unavailable"
	KindTimeout             ErrorKind = "timeout"
	KindUnknown             ErrorKind = "unknown"
)

// ClassifiedError is implemented by every error SendMessage can return.
type ClassifiedError interface {
	error
	Kind() ErrorKind
}

// KindOf returns the kind of the first ClassifiedError in err's chain, or
// KindUnknown.
func KindOf(err error) ErrorKind {
	var ce ClassifiedError
	if errors.As(err, &ce) {
		return ce.Kind()
	}
	return KindUnknown
}

// ConfigError represents a transport configuration error.
// It is returned at construction time and is never recoverable at runtime.
type ConfigError struct {
	// Provider is the name of the provider with invalid configuration
	Provider string

	// Field is the configuration field that is invalid
	Field string

	// Message describes the configuration error
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q configuration error for field %q: %s",
		e.Provider, e.Field, e.Message)
}

// StatusError is returned by Transport.Post when the upstream answers with a
// non-2xx status. It is unclassified; pass it through Classify.
type StatusError struct {
	StatusCode int
	Body       string

	// RetryAfter is parsed from the Retry-After header, zero when absent.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// AuthError represents a rejected credential (HTTP 401).
type AuthError struct {
	// Provider is the name of the provider that rejected authentication
	Provider string

	// Message is the error body from the provider
	Message string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	msg := fmt.Sprintf("provider %q authentication failed: invalid or expired credential", e.Provider)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Kind implements ClassifiedError.
func (e *AuthError) Kind() ErrorKind { return KindAuth }

// RateLimitError represents a rate limit exceeded error (HTTP 429).
// It includes the retry-after duration if provided by the provider.
type RateLimitError struct {
	// Provider is the name of the provider that rate limited the request
	Provider string

	// RetryAfter is the duration to wait before retrying (if provided)
	RetryAfter time.Duration

	// Message is the error body from the provider
	Message string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider %q rate limit exceeded, retry after %s: %s",
			e.Provider, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("provider %q rate limit exceeded, retry later: %s", e.Provider, e.Message)
}

// Kind implements ClassifiedError.
func (e *RateLimitError) Kind() ErrorKind { return KindRateLimit }

// UpstreamUnavailableError represents a server-side failure (HTTP 5xx).
type UpstreamUnavailableError struct {
	Provider   string
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("provider %q temporarily unavailable (status %d): %s",
		e.Provider, e.StatusCode, e.Message)
}

// Kind implements ClassifiedError.
func (e *UpstreamUnavailableError) Kind() ErrorKind { return KindUpstreamUnavailable }

// TimeoutError represents a request that exceeded its time budget or whose
// connection was aborted.
type TimeoutError struct {
	// Provider is the name of the provider where the timeout occurred
	Provider string

	// Timeout is the configured timeout duration
	Timeout time.Duration

	// Cause is the underlying transport error
	Cause error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("provider %q request timeout after %s", e.Provider, e.Timeout)
}

// Unwrap returns the underlying error for error chain support.
func (e *TimeoutError) Unwrap() error { return e.Cause }

// Kind implements ClassifiedError.
func (e *TimeoutError) Kind() ErrorKind { return KindTimeout }

// UnknownProviderError is any upstream failure not covered by another kind.
// Message carries the original error text.
type UnknownProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *UnknownProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %q error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *UnknownProviderError) Unwrap() error { return e.Cause }

// Kind implements ClassifiedError.
func (e *UnknownProviderError) Kind() ErrorKind { return KindUnknown }

// EmptyResponseError means the upstream returned no usable body at all.
// Callers treat it as an unknown provider failure.
type EmptyResponseError struct {
	Provider string

	// Cause is the decode error, if the body was present but not a JSON object
	Cause error
}

// Error implements the error interface.
func (e *EmptyResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider %q returned an empty response: %v", e.Provider, e.Cause)
	}
	return fmt.Sprintf("provider %q returned an empty response", e.Provider)
}

// Unwrap returns the underlying error for error chain support.
func (e *EmptyResponseError) Unwrap() error { return e.Cause }

// Kind implements ClassifiedError.
func (e *EmptyResponseError) Kind() ErrorKind { return KindUnknown }
