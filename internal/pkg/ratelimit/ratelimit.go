package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of a single limiter check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// Reset is the time until the oldest counted hit leaves the window.
	Reset time.Duration
}

// Limiter is a sliding-window rate limiter. Check records one hit for key and
// reports whether the hit is within the configured ceiling.
type Limiter interface {
	Check(ctx context.Context, key string) (Decision, error)
}

// MemoryLimiter keeps per-key hit timestamps in process memory. Counters are
// best effort per instance; a multi-instance deployment should use the Redis
// backend instead.
type MemoryLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

// NewMemoryLimiter creates an in-memory limiter allowing limit hits per window.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:  limit,
		window: window,
		hits:   map[string][]time.Time{},
		now:    time.Now,
	}
}

// Check prunes expired hits for key, appends the current one, and compares
// against the ceiling. Prune and append happen under one lock so a key is
// never undercounted by concurrent requests.
func (l *MemoryLimiter) Check(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.hits[key][:0]
	for _, ts := range l.hits[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	kept = append(kept, now)
	l.hits[key] = kept

	remaining := l.limit - len(kept)
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   len(kept) <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		Reset:     l.window - now.Sub(kept[0]),
	}, nil
}
