package http

import (
	"math"
	"sync"
	"time"
)

const unknownClientKey = "unknown"

// bucket tracks the remaining request budget of one client.
type bucket struct {
	tokens     float64
	refilledAt time.Time
	seenAt     time.Time
}

// RateLimiter is a per-client token bucket. Buckets idle for longer than the
// TTL are dropped by a background sweeper until Stop is called.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	capacity float64
	perSec   float64
	ttl      time.Duration
	now      func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter returns a limiter allowing bursts of capacity requests that
// refill at perSecond tokens per second.
func NewRateLimiter(capacity int, perSecond float64, ttl time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		capacity: float64(capacity),
		perSec:   perSecond,
		ttl:      ttl,
		now:      time.Now,
		done:     make(chan struct{}),
	}

	if ttl > 0 {
		go rl.sweep(ttl)
	}

	return rl
}

// Allow reports whether key may make a request now.
func (rl *RateLimiter) Allow(key string) bool {
	allowed, _ := rl.Reserve(key)
	return allowed
}

// Reserve takes a token for key. When none is left it reports how long the
// client has to wait for the next one.
func (rl *RateLimiter) Reserve(key string) (bool, time.Duration) {
	if key == "" {
		key = unknownClientKey
	}

	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b := rl.buckets[key]
	if b == nil {
		b = &bucket{tokens: rl.capacity, refilledAt: now}
		rl.buckets[key] = b
	}
	b.seenAt = now

	if since := now.Sub(b.refilledAt); since > 0 {
		b.tokens = math.Min(rl.capacity, b.tokens+since.Seconds()*rl.perSec)
		b.refilledAt = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}

	if rl.perSec <= 0 {
		return false, rl.ttl
	}
	missing := 1 - b.tokens
	return false, time.Duration(missing / rl.perSec * float64(time.Second))
}

// Stop ends the background sweeper. Calling it again is a no-op.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.pruneStale()
		}
	}
}

func (rl *RateLimiter) pruneStale() {
	if rl.ttl <= 0 {
		return
	}

	cutoff := rl.now().Add(-rl.ttl)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, b := range rl.buckets {
		if b.seenAt.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// retryAfterSeconds rounds wait up to whole seconds for the Retry-After header.
func retryAfterSeconds(wait time.Duration) int {
	seconds := int(math.Ceil(wait.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}
