// Package ratelimit implements per-key fixed-window request budgets.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

func windowBounds(now time.Time, window time.Duration) (time.Time, time.Duration) {
	start := now.Truncate(window)
	return start, start.Add(window).Sub(now)
}

func decide(count int64, limit int, untilReset time.Duration) Decision {
	if count > int64(limit) {
		return Decision{Allowed: false, RetryAfter: untilReset}
	}
	return Decision{Allowed: true, Remaining: limit - int(count)}
}

// MemoryLimiter is a process-local limiter for single-instance deployments
// and tests.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]memoryBucket
}

type memoryBucket struct {
	start time.Time
	count int64
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{limit: limit, window: window, now: time.Now, buckets: map[string]memoryBucket{}}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	start, untilReset := windowBounds(l.now(), l.window)
	l.mu.Lock()
	defer l.mu.Unlock()
	b := l.buckets[key]
	if !b.start.Equal(start) {
		b = memoryBucket{start: start}
	}
	b.count++
	l.buckets[key] = b
	if len(l.buckets) > 10000 {
		l.evictBefore(start)
	}
	return decide(b.count, l.limit, untilReset), nil
}

func (l *MemoryLimiter) evictBefore(start time.Time) {
	for k, b := range l.buckets {
		if b.start.Before(start) {
			delete(l.buckets, k)
		}
	}
}
