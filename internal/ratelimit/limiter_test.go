package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const interval = 120 * time.Millisecond

func TestThrottle_FirstCallDoesNotBlock(t *testing.T) {
	l := NewLimiter(interval)

	start := time.Now()
	require.NoError(t, l.Throttle(context.Background()))
	assert.Less(t, time.Since(start), interval/2)
}

func TestThrottle_BlocksUntilIntervalElapsed(t *testing.T) {
	l := NewLimiter(interval)
	ctx := context.Background()

	require.NoError(t, l.Throttle(ctx))
	start := time.Now()
	require.NoError(t, l.Throttle(ctx))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, interval-10*time.Millisecond)
	assert.Less(t, elapsed, interval+100*time.Millisecond)
}

func TestThrottle_NoWaitWhenGapAlreadyElapsed(t *testing.T) {
	l := NewLimiter(interval)
	ctx := context.Background()

	require.NoError(t, l.Throttle(ctx))
	time.Sleep(interval + 10*time.Millisecond)

	start := time.Now()
	require.NoError(t, l.Throttle(ctx))
	assert.Less(t, time.Since(start), interval/2)
}

func TestThrottle_ZeroIntervalNeverBlocks(t *testing.T) {
	l := NewLimiter(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Throttle(ctx))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestThrottle_NegativeIntervalClampedToZero(t *testing.T) {
	l := NewLimiter(-time.Second)
	assert.Equal(t, time.Duration(0), l.Interval())
}

func TestThrottle_ContextCanceledWhileWaiting(t *testing.T) {
	l := NewLimiter(time.Second)
	require.NoError(t, l.Throttle(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := l.Throttle(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
