package worker

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Limiter implements per-key rate limiting. Idle keys expire after the
// configured TTL so long-running servers do not accumulate one limiter per
// client forever.
type Limiter struct {
	limiters     *cache.Cache
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter. A non-positive requestsPerSecond
// disables limiting.
func NewLimiter(requestsPerSecond float64, burst int, ttl time.Duration) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     cache.New(ttl, 2*ttl),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until key may proceed or ctx is done
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.getLimiter(key).Wait(ctx)
}

// Allow checks if a request for key is allowed without waiting
func (l *Limiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

// SetKeyRate sets a custom rate limit for a specific key
func (l *Limiter) SetKeyRate(key string, requestsPerSecond float64, burst int) {
	if burst <= 0 {
		burst = l.defaultBurst
	}
	l.limiters.SetDefault(key, rate.NewLimiter(rate.Limit(requestsPerSecond), burst))
}

// Len returns the number of tracked keys, including expired ones not yet evicted
func (l *Limiter) Len() int {
	return l.limiters.ItemCount()
}

// getLimiter returns the limiter for key and refreshes its expiry
func (l *Limiter) getLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.limiters.Get(key); ok {
		limiter := v.(*rate.Limiter)
		l.limiters.SetDefault(key, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters.SetDefault(key, limiter)
	return limiter
}
