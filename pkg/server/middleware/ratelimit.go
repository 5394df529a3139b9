package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"aya-hq/companion/pkg/limits/ratelimit"
)

// SetRateLimitHeaders sets the X-RateLimit-* headers, and Retry-After when
// the request was rejected.
func SetRateLimitHeaders(w http.ResponseWriter, result ratelimit.CheckResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
	if !result.Allowed {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(result)))
	}
}

// WriteRateLimited writes a 429 response for a rejected check.
func WriteRateLimited(w http.ResponseWriter, r *http.Request, result ratelimit.CheckResult) {
	SetRateLimitHeaders(w, result)
	WriteError(w, r, http.StatusTooManyRequests,
		fmt.Sprintf("Too many messages. Please wait %d seconds and try again.", retryAfterSeconds(result)))
}

func retryAfterSeconds(result ratelimit.CheckResult) int {
	secs := int(math.Ceil(result.RetryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}
