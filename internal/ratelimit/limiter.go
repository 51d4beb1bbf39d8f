// Package ratelimit implements fixed-window request counting keyed by
// caller identity. Windows live in memory; a janitor drops expired ones.
package ratelimit

import (
	"context"
	"log"
	"sync"
	"time"

	"dokan-backend/internal/metric"
)

// Config is the ceiling for one scope: at most Max hits per Window.
type Config struct {
	Window time.Duration
	Max    int
}

// Ceilings for the endpoints that need abuse protection.
var (
	OTPSend     = Config{Window: 5 * time.Minute, Max: 3}
	Login       = Config{Window: 15 * time.Minute, Max: 5}
	OrderCreate = Config{Window: time.Hour, Max: 10}
)

// Decision reports the outcome of one Allow call. RetryAfter is only
// set on rejection.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	ResetAt    time.Time
}

type window struct {
	count   int
	resetAt time.Time
}

type Limiter struct {
	windows map[string]window
	now     func() time.Time
	sync.Mutex
	ticker *time.Ticker
}

func New(cleanupInterval time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]window),
		now:     time.Now,
		ticker:  time.NewTicker(cleanupInterval),
	}
}

// Allow records one hit for key under scope and reports whether it fits
// inside the window. The window starts at the first hit after the
// previous one expired; the counter never carries over.
func (l *Limiter) Allow(scope, key string, conf Config) Decision {
	l.Lock()
	defer l.Unlock()

	now := l.now()
	k := scope + ":" + key
	w, ok := l.windows[k]
	if !ok || !now.Before(w.resetAt) {
		w = window{resetAt: now.Add(conf.Window)}
	}

	if w.count >= conf.Max {
		metric.RateLimitRejectionsTotal.WithLabelValues(scope).Inc()
		return Decision{
			Limit:      conf.Max,
			RetryAfter: w.resetAt.Sub(now),
			ResetAt:    w.resetAt,
		}
	}

	w.count++
	l.windows[k] = w
	return Decision{
		Allowed:   true,
		Limit:     conf.Max,
		Remaining: conf.Max - w.count,
		ResetAt:   w.resetAt,
	}
}

// GC drops expired windows on every tick until the context is done.
func (l *Limiter) GC(ctx context.Context) error {
	for {
		select {
		case <-l.ticker.C:
			l.Lock()
			now := l.now()
			deleted := 0
			for key, w := range l.windows {
				if !now.Before(w.resetAt) {
					delete(l.windows, key)
					deleted++
				}
			}
			if deleted > 0 {
				log.Printf("ratelimit GC: dropped %d expired windows", deleted)
			}
			l.Unlock()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Limiter) Stop() {
	l.ticker.Stop()
}
