// Package ratelimit provides a token-bucket rate limiter keyed by an
// arbitrary string, typically a client IP.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// KeyedRateLimiter hands out an independent token bucket per key.
// Buckets are created on first use and live until Stop.
type KeyedRateLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// New creates a keyed limiter allowing rps requests per second with the
// given burst per key.
func New(rps float64, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

// Allow reports whether a request under the key may proceed right now.
func (l *KeyedRateLimiter) Allow(key string) bool {
	return l.bucket(key).Allow()
}

// Wait blocks until a request under the key may proceed or ctx is canceled.
func (l *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return l.bucket(key).Wait(ctx)
}

// Stop releases all buckets. Calls after Stop still work; they just start
// from fresh buckets.
func (l *KeyedRateLimiter) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buckets = make(map[string]*rate.Limiter)
}

func (l *KeyedRateLimiter) bucket(key string) *rate.Limiter {
	l.mu.RLock()
	b, ok := l.buckets[key]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok = l.buckets[key]; ok {
		return b
	}
	b = rate.NewLimiter(l.limit, l.burst)
	// rate.Limiter has no last-access tracking, so idle buckets stay in the
	// map until Stop. Auth endpoints on a personal server see few distinct
	// IPs, so the map stays small.
	l.buckets[key] = b
	return b
}
