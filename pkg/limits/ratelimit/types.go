package ratelimit

import "time"

// Config configures a KeyedLimiter.
type Config struct {
	// RequestsPerMinute is the sustained rate per key.
	RequestsPerMinute int

	// Burst is the bucket capacity per key. Zero means RequestsPerMinute.
	Burst int
}

// CheckResult contains the result of a rate limit check.
type CheckResult struct {
	// Allowed indicates if the request is permitted.
	Allowed bool

	// Limit is the bucket capacity.
	Limit int64

	// Remaining is how many requests remain in the bucket.
	Remaining int64

	// RetryAfter suggests how long to wait before retrying (if Allowed=false).
	RetryAfter time.Duration
}
