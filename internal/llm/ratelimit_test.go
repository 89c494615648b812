package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	newClocked := func(rpm int) (*rateLimiter, *time.Time) {
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		rl := newRateLimiter(rpm)
		rl.now = func() time.Time { return now }
		rl.last = now
		return rl, &now
	}

	t.Run("burst holds one second of requests", func(t *testing.T) {
		rl, _ := newClocked(300)

		for i := 0; i < 5; i++ {
			assert.Zero(t, rl.reserve(), "attempt %d should succeed", i+1)
		}
		assert.Equal(t, 200*time.Millisecond, rl.reserve())
		assert.Equal(t, 0, rl.available())
	})

	t.Run("tokens are earned over time", func(t *testing.T) {
		rl, now := newClocked(60)

		assert.Zero(t, rl.reserve())
		assert.Equal(t, time.Second, rl.reserve())

		*now = now.Add(500 * time.Millisecond)
		assert.Equal(t, 500*time.Millisecond, rl.reserve())

		*now = now.Add(500 * time.Millisecond)
		assert.Zero(t, rl.reserve())
	})

	t.Run("bucket never exceeds capacity", func(t *testing.T) {
		rl, now := newClocked(120)

		*now = now.Add(time.Hour)
		assert.Equal(t, 2, rl.available())
	})

	t.Run("default rate limit", func(t *testing.T) {
		rl := newRateLimiter(0)
		assert.Equal(t, time.Second, rl.interval)
		assert.Equal(t, 1, rl.available())
	})

	t.Run("wait sleeps until a token is earned", func(t *testing.T) {
		rl := newRateLimiter(600)
		for rl.available() > 0 {
			require.Zero(t, rl.reserve())
		}

		start := time.Now()
		require.NoError(t, rl.wait(context.Background()))
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("context cancellation", func(t *testing.T) {
		rl := newRateLimiter(1)
		require.NoError(t, rl.wait(context.Background()))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := rl.wait(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Contains(t, err.Error(), "rate limiter canceled")
	})
}
