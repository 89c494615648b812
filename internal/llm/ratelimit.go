package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// rateLimiter is a token bucket refilled lazily from the clock. It holds up
// to one second of requests, so a burst can never exceed the per-second share
// of the configured rate.
type rateLimiter struct {
	last     time.Time
	now      func() time.Time
	tokens   float64
	capacity float64
	interval time.Duration
	mu       sync.Mutex
}

// newRateLimiter creates a limiter allowing requestsPerMinute requests.
func newRateLimiter(requestsPerMinute int) *rateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}

	burst := float64(max(1, requestsPerMinute/60))
	rl := &rateLimiter{
		now:      time.Now,
		tokens:   burst,
		capacity: burst,
		interval: time.Minute / time.Duration(requestsPerMinute),
	}
	rl.last = rl.now()
	return rl
}

// wait blocks until a token is taken or the context is canceled.
func (rl *rateLimiter) wait(ctx context.Context) error {
	for {
		delay := rl.reserve()
		if delay == 0 {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("rate limiter canceled: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

// reserve takes a token and returns zero, or returns how long until the next
// token is earned.
func (rl *rateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	if rl.tokens >= 1 {
		rl.tokens--
		return 0
	}
	return max(time.Millisecond, time.Duration((1-rl.tokens)*float64(rl.interval)))
}

func (rl *rateLimiter) refill() {
	now := rl.now()
	earned := float64(now.Sub(rl.last)) / float64(rl.interval)
	rl.last = now
	if earned > 0 {
		rl.tokens = min(rl.capacity, rl.tokens+earned)
	}
}

// available reports the whole tokens currently in the bucket.
func (rl *rateLimiter) available() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	return int(rl.tokens)
}
