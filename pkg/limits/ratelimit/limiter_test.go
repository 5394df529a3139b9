package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTokenBucket_Basic(t *testing.T) {
	bucket := NewTokenBucket(10, 10)

	if !bucket.Take(5) {
		t.Error("Expected to take 5 tokens from full bucket")
	}
	if remaining := bucket.Remaining(); remaining < 5 || remaining > 6 {
		t.Errorf("Expected about 5 remaining, got %d", remaining)
	}
}

func TestTokenBucket_Refill(t *testing.T) {
	clock := newFakeClock()
	bucket := newTokenBucket(5, 30.0/60.0, clock.Now)

	if !bucket.Take(5) {
		t.Fatal("Expected to drain the full bucket")
	}
	if bucket.Take(1) {
		t.Fatal("Expected bucket to be empty")
	}

	// One token every 2s; fractions must accumulate across calls.
	clock.Advance(time.Second)
	if bucket.Take(1) {
		t.Error("Expected no token after 1s")
	}
	clock.Advance(time.Second)
	if !bucket.Take(1) {
		t.Error("Expected a token after 2s")
	}
}

func TestTokenBucket_CapacityLimit(t *testing.T) {
	clock := newFakeClock()
	bucket := newTokenBucket(3, 1, clock.Now)

	clock.Advance(time.Hour)
	if got := bucket.Remaining(); got != 3 {
		t.Errorf("Remaining() = %d, want capacity 3", got)
	}
}

func TestTokenBucket_TimeUntilAvailable(t *testing.T) {
	clock := newFakeClock()
	bucket := newTokenBucket(1, 0.5, clock.Now)

	if d := bucket.TimeUntilAvailable(1); d != 0 {
		t.Errorf("full bucket wait = %v, want 0", d)
	}
	bucket.Take(1)
	if d := bucket.TimeUntilAvailable(1); d != 2*time.Second {
		t.Errorf("empty bucket wait = %v, want 2s", d)
	}

	bucket.Reset()
	if !bucket.Take(1) {
		t.Error("Reset() should refill the bucket")
	}
}

func TestKeyedLimiter_PerKey(t *testing.T) {
	clock := newFakeClock()
	limiter := newKeyedLimiter(Config{RequestsPerMinute: 30, Burst: 2}, clock.Now)

	for i := 0; i < 2; i++ {
		if res := limiter.Check("a"); !res.Allowed {
			t.Fatalf("request %d for a rejected", i+1)
		}
	}

	res := limiter.Check("a")
	if res.Allowed {
		t.Fatal("third request for a should be rejected")
	}
	if res.RetryAfter != 2*time.Second {
		t.Errorf("RetryAfter = %v, want 2s", res.RetryAfter)
	}
	if res.Limit != 2 {
		t.Errorf("Limit = %d, want 2", res.Limit)
	}

	if res := limiter.Check("b"); !res.Allowed {
		t.Error("other key should have its own bucket")
	}

	clock.Advance(2 * time.Second)
	if res := limiter.Check("a"); !res.Allowed {
		t.Error("request after refill should be allowed")
	}
}

func TestKeyedLimiter_CheckAll(t *testing.T) {
	clock := newFakeClock()
	limiter := newKeyedLimiter(Config{RequestsPerMinute: 60, Burst: 2}, clock.Now)

	res := limiter.CheckAll("client", "s-1")
	if !res.Allowed || res.Remaining != 1 {
		t.Fatalf("first = %+v, want allowed with 1 remaining", res)
	}

	limiter.Check("s-2")
	res = limiter.CheckAll("client", "s-2")
	if !res.Allowed || res.Remaining != 0 {
		t.Errorf("tightest bucket not reported: %+v", res)
	}

	// client bucket is empty now, whichever second key is used
	res = limiter.CheckAll("client", "s-3")
	if res.Allowed {
		t.Fatal("exhausted first key should deny")
	}
	if res.RetryAfter != time.Second {
		t.Errorf("RetryAfter = %v, want 1s", res.RetryAfter)
	}
	if limiter.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (denied check stops before s-3)", limiter.Len())
	}

	if res := limiter.CheckAll(); !res.Allowed {
		t.Error("no keys should allow")
	}
}

func TestKeyedLimiter_BurstDefaultsToRate(t *testing.T) {
	limiter := NewKeyedLimiter(Config{RequestsPerMinute: 3})
	for i := 0; i < 3; i++ {
		if !limiter.Check("k").Allowed {
			t.Fatalf("request %d rejected", i+1)
		}
	}
	if limiter.Check("k").Allowed {
		t.Error("fourth request should be rejected")
	}
}

func TestKeyedLimiter_ForgetAndPrune(t *testing.T) {
	clock := newFakeClock()
	limiter := newKeyedLimiter(Config{RequestsPerMinute: 60, Burst: 1}, clock.Now)

	limiter.Check("old")
	clock.Advance(2 * time.Hour)
	limiter.Check("new")

	if n := limiter.Prune(time.Hour); n != 1 {
		t.Errorf("Prune() = %d, want 1", n)
	}
	if limiter.Len() != 1 {
		t.Errorf("Len() = %d, want 1", limiter.Len())
	}

	limiter.Forget("new")
	if limiter.Len() != 0 {
		t.Errorf("Len() after Forget = %d, want 0", limiter.Len())
	}
}

func TestKeyedLimiter_Concurrent(t *testing.T) {
	limiter := NewKeyedLimiter(Config{RequestsPerMinute: 1, Burst: 50})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Check("shared").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Errorf("allowed = %d, want 50", allowed)
	}
}
