// Package ratelimit implements per-key token bucket rate limiting.
//
// Each chat session gets its own bucket holding Burst tokens that refill at
// RequestsPerMinute/60 tokens per second. A rejected check reports how long
// until the next token, which the HTTP layer sends as Retry-After.
package ratelimit
