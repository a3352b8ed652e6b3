// Package ratelimit provides the in-process login limiter used when no Redis
// address is configured.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const maxTrackedKeys = 5000

// MemoryLimiter is a sliding-window limiter keyed by client IP. It is only
// accurate for a single replica.
type MemoryLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryLimiter{
		max:    max,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	now := l.now().UTC()
	threshold := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	hits := l.hits[key]
	kept := make([]time.Time, 0, len(hits)+1)
	for _, hit := range hits {
		if hit.After(threshold) {
			kept = append(kept, hit)
		}
	}

	if len(kept) >= l.max {
		l.hits[key] = kept
		retryAfter := kept[0].Add(l.window).Sub(now)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return false, retryAfter, nil
	}

	l.hits[key] = append(kept, now)

	if len(l.hits) > maxTrackedKeys {
		for k, v := range l.hits {
			if len(v) == 0 || v[len(v)-1].Before(threshold) {
				delete(l.hits, k)
			}
		}
	}
	return true, 0, nil
}
