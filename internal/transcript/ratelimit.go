package transcript

import (
	"sync"
	"time"
)

// Limiter is a process-wide sliding-window rate limiter. A call is admitted
// iff fewer than limit admissions happened strictly within the trailing
// window; admitted calls record their timestamp. Entries age out naturally,
// there is no explicit reset and no per-key state.
//
// The mutex is held only for the admit decision, never across source calls.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time // time-ordered admissions inside the window

	now func() time.Time // overridable in tests
}

// NewLimiter builds a limiter admitting at most limit calls per window.
func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// TryAdmit reports whether a source call may proceed. When denied, retryAfter
// is the time until the oldest recorded admission leaves the window.
func (l *Limiter) TryAdmit() (ok bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// Drop aged-out entries from the front; stamps stays time-ordered.
	i := 0
	for i < len(l.stamps) && !l.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.stamps = append(l.stamps[:0], l.stamps[i:]...)
	}

	if len(l.stamps) >= l.limit {
		return false, l.stamps[0].Add(l.window).Sub(now)
	}
	l.stamps = append(l.stamps, now)
	return true, 0
}

// Limit returns the configured admission count per window.
func (l *Limiter) Limit() int { return l.limit }
