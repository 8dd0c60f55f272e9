package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces out calls to a remote service so that no two calls begin
// less than the configured interval apart. The interval is measured from
// the moment the previous Throttle returned.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	lastCall time.Time
}

func NewLimiter(minInterval time.Duration) *Limiter {
	if minInterval < 0 {
		minInterval = 0
	}
	return &Limiter{interval: minInterval}
}

func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Throttle blocks until the interval since the previous call has elapsed.
// The wait never exceeds the interval. It only fails when ctx ends while
// waiting, in which case the previous call time is left untouched.
func (l *Limiter) Throttle(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.interval > 0 && !l.lastCall.IsZero() {
		if delay := l.interval - time.Since(l.lastCall); delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
	}

	l.lastCall = time.Now()
	return nil
}
