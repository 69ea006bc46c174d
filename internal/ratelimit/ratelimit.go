// Package ratelimit implements a fixed-window request counter keyed by a
// caller-supplied identifier.
//
// State lives in this process only: in a clustered deployment each
// instance counts independently, so the limit is approximate. Move the
// counters to a shared store (Valkey) if an exact global limit is ever
// required.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultMaxRequests = 10
	DefaultWindow      = time.Minute
)

// Config sets the window size and the request budget per window.
type Config struct {
	MaxRequests int
	Window      time.Duration
}

// Result is the tri-state decision for one request: allowed with budget
// left, allowed exactly at the boundary, or rejected.
type Result struct {
	Allowed   bool
	AtLimit   bool // allowed, but this request consumed the last slot
	Remaining int
	ResetAt   time.Time
}

type window struct {
	count   int
	resetAt time.Time
}

// Limiter counts requests per identifier in fixed windows, with lazy
// expiry on access and a periodic sweep of idle entries.
type Limiter struct {
	mu      sync.Mutex
	cfg     Config
	windows map[string]*window
	stop    chan struct{}
}

// New creates a limiter and starts its sweep goroutine. Zero config
// fields fall back to the defaults.
func New(cfg Config) *Limiter {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = DefaultMaxRequests
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}

	l := &Limiter{
		cfg:     cfg,
		windows: make(map[string]*window),
		stop:    make(chan struct{}),
	}
	go l.sweep()
	return l
}

// Allow records a request for id and decides whether it may proceed.
func (l *Limiter) Allow(id string) Result {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[id]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.cfg.Window)}
		l.windows[id] = w
	}

	if w.count >= l.cfg.MaxRequests {
		return Result{
			Allowed:   false,
			Remaining: 0,
			ResetAt:   w.resetAt,
		}
	}

	w.count++
	remaining := l.cfg.MaxRequests - w.count
	return Result{
		Allowed:   true,
		AtLimit:   remaining == 0,
		Remaining: remaining,
		ResetAt:   w.resetAt,
	}
}

// Stop ends the sweep goroutine.
func (l *Limiter) Stop() {
	close(l.stop)
}

// sweep periodically drops expired windows so idle identifiers don't
// accumulate forever.
func (l *Limiter) sweep() {
	interval := l.cfg.Window
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			now := time.Now()
			l.mu.Lock()
			for id, w := range l.windows {
				if !now.Before(w.resetAt) {
					delete(l.windows, id)
				}
			}
			l.mu.Unlock()
		}
	}
}
