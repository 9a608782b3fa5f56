// Package ratelimit implements a counting sliding-window rate limiter
// keyed by client identifier.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits at most limit events per client key within a trailing
// window. It is a plain counting limiter, not a token bucket: bursts are
// bounded by exactly limit events per rolling window, with no
// replenishment smoothing.
//
// A Limiter is an explicitly constructed instance shared by reference
// between handlers; all state is guarded by an internal mutex so that
// concurrent checks for the same key cannot over-admit.
//
// The key space is never evicted: a client key that stops sending
// requests keeps its (empty after purge) entry for the process lifetime.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	// now is swappable for tests.
	now func() time.Time
	// seen maps client key to the timestamps of admitted requests
	// still inside the window.
	seen map[string][]time.Time
}

// New constructs a Limiter admitting limit events per window per key.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		seen:   make(map[string][]time.Time),
	}
}

// Allow records an attempt for clientID and reports whether it is
// admitted. Timestamps older than the window are purged first; if the
// remaining count has reached the limit the attempt is rejected and not
// recorded. Purge, count, and append happen atomically under the lock.
func (l *Limiter) Allow(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.seen[clientID][:0]
	for _, ts := range l.seen[clientID] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.seen[clientID] = kept

	if len(kept) >= l.limit {
		return false
	}

	l.seen[clientID] = append(kept, now)
	return true
}
