package ratelimit

import (
	"sync"
	"time"
)

// KeyedLimiter keeps one token bucket per key, typically a chat session ID.
// Buckets are created on first use and dropped by Forget or Prune.
type KeyedLimiter struct {
	config  Config
	buckets map[string]*TokenBucket
	now     func() time.Time
	mu      sync.Mutex
}

// NewKeyedLimiter creates a limiter for cfg.
//
// Example:
//
//	limiter := NewKeyedLimiter(Config{RequestsPerMinute: 20, Burst: 5})
//	if res := limiter.Check(sessionID); !res.Allowed {
//	    w.Header().Set("Retry-After", ...)
//	}
func NewKeyedLimiter(cfg Config) *KeyedLimiter {
	return newKeyedLimiter(cfg, time.Now)
}

func newKeyedLimiter(cfg Config, now func() time.Time) *KeyedLimiter {
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerMinute
	}
	return &KeyedLimiter{
		config:  cfg,
		buckets: make(map[string]*TokenBucket),
		now:     now,
	}
}

// Check consumes one request for key.
func (l *KeyedLimiter) Check(key string) CheckResult {
	bucket := l.bucket(key)

	if bucket.Take(1) {
		return CheckResult{
			Allowed:   true,
			Limit:     bucket.Capacity(),
			Remaining: bucket.Remaining(),
		}
	}

	return CheckResult{
		Allowed:    false,
		Limit:      bucket.Capacity(),
		Remaining:  0,
		RetryAfter: bucket.TimeUntilAvailable(1),
	}
}

// CheckAll consumes one request from each key's bucket in order and stops
// at the first bucket that is empty. Buckets checked before a denial keep
// their consumed token. An allowed result reports the tightest bucket.
func (l *KeyedLimiter) CheckAll(keys ...string) CheckResult {
	var result CheckResult
	for i, key := range keys {
		res := l.Check(key)
		if !res.Allowed {
			return res
		}
		if i == 0 || res.Remaining < result.Remaining {
			result = res
		}
	}
	if len(keys) == 0 {
		result.Allowed = true
	}
	return result
}

// Forget drops the bucket for key.
func (l *KeyedLimiter) Forget(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// Prune drops buckets untouched for longer than idle and returns how many
// were removed.
func (l *KeyedLimiter) Prune(idle time.Duration) int {
	cutoff := l.now().Add(-idle)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, bucket := range l.buckets {
		if bucket.idleSince().Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *KeyedLimiter) bucket(key string) *TokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets[key]
	if !ok {
		bucket = newTokenBucket(int64(l.config.Burst), float64(l.config.RequestsPerMinute)/60.0, l.now)
		l.buckets[key] = bucket
	}
	return bucket
}
