// Package ratelimit implements a per-key trailing-window request limiter.
//
// Each key keeps the timestamps of its admitted requests. On every call the
// timestamps older than the interval are dropped; the request is admitted when
// fewer than limit remain. Rejected requests are not recorded, so they never
// extend the window.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultLimit is the number of requests admitted per interval.
	DefaultLimit = 10
	// DefaultInterval is the length of the trailing window.
	DefaultInterval = 60 * time.Second
	// DefaultMaxKeys bounds the number of tracked keys.
	DefaultMaxKeys = 10000
)

type window struct {
	stamps   []time.Time
	interval time.Duration
}

// last returns the most recent admitted timestamp.
func (w *window) last() time.Time {
	if len(w.stamps) == 0 {
		return time.Time{}
	}
	return w.stamps[len(w.stamps)-1]
}

// expired reports whether every timestamp has aged out at now.
func (w *window) expired(now time.Time) bool {
	return !w.last().After(now.Add(-w.interval))
}

// Limiter tracks request windows per key. The zero value is not usable; use New.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	maxKeys int
	now     func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithMaxKeys bounds the number of tracked keys. Non-positive values are ignored.
func WithMaxKeys(n int) Option {
	return func(l *Limiter) {
		if n > 0 {
			l.maxKeys = n
		}
	}
}

// New creates a Limiter.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		windows: make(map[string]*window),
		maxKeys: DefaultMaxKeys,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records a request for key and reports whether it is admitted.
// A non-positive limit rejects everything; a non-positive interval falls back
// to DefaultInterval.
func (l *Limiter) Allow(key string, limit int, interval time.Duration) bool {
	if interval <= 0 {
		interval = DefaultInterval
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-interval)

	w, ok := l.windows[key]
	if !ok {
		w = &window{}
	}
	w.interval = interval

	kept := w.stamps[:0]
	for _, ts := range w.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	w.stamps = kept

	if len(w.stamps) >= limit {
		if len(w.stamps) == 0 && ok {
			delete(l.windows, key)
		}
		return false
	}

	if !ok {
		l.makeRoom(now)
		l.windows[key] = w
	}
	w.stamps = append(w.stamps, now)
	return true
}

// makeRoom frees a slot for a new key when the limiter is full: aged-out keys
// go first, then the least recently admitted one.
func (l *Limiter) makeRoom(now time.Time) {
	if len(l.windows) < l.maxKeys {
		return
	}
	l.sweepLocked(now)
	if len(l.windows) < l.maxKeys {
		return
	}

	var (
		victim string
		oldest time.Time
		found  bool
	)
	for key, w := range l.windows {
		if !found || w.last().Before(oldest) {
			victim, oldest, found = key, w.last(), true
		}
	}
	if found {
		delete(l.windows, victim)
	}
}

// Sweep drops keys whose windows have fully aged out and returns how many
// were removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sweepLocked(l.now())
}

func (l *Limiter) sweepLocked(now time.Time) int {
	removed := 0
	for key, w := range l.windows {
		if w.expired(now) {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Run sweeps every period until ctx is done.
func (l *Limiter) Run(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}
