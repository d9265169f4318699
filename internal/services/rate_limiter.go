package services

import (
	"sync"
	"time"
)

// IntervalLimiter admits at most one call per minimum interval. It never
// queues: the first racer through wins and everyone else is told how long to
// wait. One instance guards the assistant process-wide.
type IntervalLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

func NewIntervalLimiter(interval time.Duration) *IntervalLimiter {
	return &IntervalLimiter{
		interval: interval,
		now:      time.Now,
	}
}

// SetNowFunc overrides the clock, for deterministic tests.
func (l *IntervalLimiter) SetNowFunc(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// Allow reports whether a call may proceed. When it may not, the returned
// duration is the remaining wait before the next call will be admitted.
func (l *IntervalLimiter) Allow() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if !l.last.IsZero() {
		if elapsed := now.Sub(l.last); elapsed < l.interval {
			return l.interval - elapsed, false
		}
	}
	l.last = now
	return 0, true
}
