package tilt

import (
	"sync"

	"golang.org/x/time/rate"
)

// UserLimiter rate-limits signals per user so a spammed phrase cannot pump a
// score faster than a human argues. One token bucket per user, created on
// first use.
type UserLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewUserLimiter creates a limiter allowing perSecond sustained signals with
// the given burst per user.
func NewUserLimiter(perSecond float64, burst int) *UserLimiter {
	return &UserLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether a signal for userID may proceed, consuming a token
// when it does.
func (l *UserLimiter) Allow(userID string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[userID] = lim
	}
	l.mu.Unlock()

	return lim.Allow()
}

// Forget drops a user's bucket, releasing its memory.
func (l *UserLimiter) Forget(userID string) {
	l.mu.Lock()
	delete(l.limiters, userID)
	l.mu.Unlock()
}
