// Package ratelimit counts attempts per key in a sliding time window.
//
// SlidingWindow keeps the counters in process and suits a single gateway
// node. RedisWindow keeps them in a sorted set per key so every node shares
// the same budget.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// SlidingWindow allows at most limit attempts per key within window.
// Rejected attempts are not recorded.
type SlidingWindow struct {
	mu     sync.Mutex
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

func NewSlidingWindow(window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records an attempt for key when the window still has room.
func (w *SlidingWindow) Allow(_ context.Context, key string, limit int) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	recent := w.prune(w.hits[key], now)
	if len(recent) >= limit {
		w.hits[key] = recent
		return false, nil
	}

	w.hits[key] = append(recent, now)
	return true, nil
}

// Sweep drops keys whose attempts all fell out of the window and returns how
// many were dropped.
func (w *SlidingWindow) Sweep(_ context.Context) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	dropped := 0
	for key, hits := range w.hits {
		recent := w.prune(hits, now)
		if len(recent) == 0 {
			delete(w.hits, key)
			dropped++
			continue
		}
		w.hits[key] = recent
	}
	return dropped, nil
}

// Keys reports how many keys are tracked.
func (w *SlidingWindow) Keys() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.hits)
}

func (w *SlidingWindow) prune(hits []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-w.window)
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}
