package providers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Classifier maps transport failures onto the closed set of error kinds.
type Classifier struct {
	// Provider is recorded on every classified error
	Provider string

	// Timeout is reported by TimeoutError
	Timeout time.Duration
}

// Classify maps err to a ClassifiedError. The first matching rule wins:
//
//  1. already classified: returned unchanged
//  2. deadline exceeded, net timeout or ECONNABORTED: *TimeoutError
//  3. status 401: *AuthError
//  4. status 429: *RateLimitError
//  5. status >= 500: *UpstreamUnavailableError
//  6. anything else: *UnknownProviderError
//
// The timeout check runs before any status check; a timeout signal never
// carries a usable status. Classify(nil) is nil.
func (c Classifier) Classify(err error) error {
	if err == nil {
		return nil
	}

	var classified ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	if isTimeout(err) {
		return &TimeoutError{Provider: c.Provider, Timeout: c.Timeout, Cause: err}
	}

	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusUnauthorized:
			return &AuthError{Provider: c.Provider, Message: se.Body}
		case se.StatusCode == http.StatusTooManyRequests:
			return &RateLimitError{Provider: c.Provider, RetryAfter: se.RetryAfter, Message: se.Body}
		case se.StatusCode >= http.StatusInternalServerError:
			return &UpstreamUnavailableError{Provider: c.Provider, StatusCode: se.StatusCode, Message: se.Body}
		default:
			return &UnknownProviderError{Provider: c.Provider, StatusCode: se.StatusCode, Message: se.Error(), Cause: err}
		}
	}

	return &UnknownProviderError{Provider: c.Provider, Message: err.Error(), Cause: err}
}

// Classify classifies err using the default provider name and timeout.
func Classify(err error) error {
	return Classifier{Provider: DefaultName, Timeout: DefaultTimeout}.Classify(err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, syscall.ECONNABORTED) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
