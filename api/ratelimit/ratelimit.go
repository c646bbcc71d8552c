// Package ratelimit implements a fixed-window request counter behind a
// pluggable Store. The in-memory store is consistent within one process
// only; the SQL store shares counts across instances.
package ratelimit

import (
	"context"
	"time"
)

// Store increments the hit count for a bucket. When the stored window has
// ended (or never existed) it starts a new one ending at now+window.
type Store interface {
	Incr(ctx context.Context, bucket string, now time.Time, window time.Duration) (hits int, resetAt time.Time, err error)
}

// Result describes one admission decision.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the time left in the window, rounded up to whole seconds.
func (r Result) RetryAfter(now time.Time) int {
	d := r.ResetAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

type Limiter struct {
	store  Store
	max    int
	window time.Duration
	now    func() time.Time
}

// New allows max requests per key in each window.
func New(store Store, max int, window time.Duration) *Limiter {
	return &Limiter{store: store, max: max, window: window, now: time.Now}
}

// WithClock replaces the limiter's time source.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

func (l *Limiter) Now() time.Time { return l.now() }

// Allow records a request from key and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	hits, resetAt, err := l.store.Incr(ctx, key, l.now(), l.window)
	if err != nil {
		return Result{}, err
	}
	remaining := l.max - hits
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   hits <= l.max,
		Limit:     l.max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
