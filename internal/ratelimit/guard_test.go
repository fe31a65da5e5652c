package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuard(start time.Time) (*Guard, *time.Time) {
	now := start
	g := NewGuard(NewMemoryStore())
	g.now = func() time.Time { return now }
	return g, &now
}

func TestHasExceededMax(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGuard(time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC))

	for i := 0; i < MaxAttempts-1; i++ {
		require.NoError(t, g.RecordAttempt(ctx, "alice@example.com", "10.0.0.1", false))
	}

	exceeded, err := g.HasExceededMax(ctx, "alice@example.com", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, exceeded)

	require.NoError(t, g.RecordAttempt(ctx, "alice@example.com", "10.0.0.1", false))

	exceeded, err = g.HasExceededMax(ctx, "alice@example.com", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, exceeded)
}

func TestSuccessfulAttemptsDoNotCount(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGuard(time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC))

	for i := 0; i < 10; i++ {
		require.NoError(t, g.RecordAttempt(ctx, "bob@example.com", "10.0.0.2", true))
	}

	exceeded, err := g.HasExceededMax(ctx, "bob@example.com", "10.0.0.2")
	require.NoError(t, err)
	assert.False(t, exceeded)

	// A success after failures does not reset the failure count either.
	for i := 0; i < MaxAttempts; i++ {
		require.NoError(t, g.RecordAttempt(ctx, "bob@example.com", "10.0.0.2", false))
	}
	require.NoError(t, g.RecordAttempt(ctx, "bob@example.com", "10.0.0.2", true))

	exceeded, err = g.HasExceededMax(ctx, "bob@example.com", "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, exceeded)
}

func TestYesterdayDoesNotCount(t *testing.T) {
	ctx := context.Background()
	g, now := newTestGuard(time.Date(2026, 8, 30, 23, 30, 0, 0, time.UTC))

	for i := 0; i < MaxAttempts; i++ {
		require.NoError(t, g.RecordAttempt(ctx, "carol@example.com", "10.0.0.3", false))
	}

	exceeded, err := g.HasExceededMax(ctx, "carol@example.com", "10.0.0.3")
	require.NoError(t, err)
	assert.True(t, exceeded)

	// Past local midnight the window resets.
	*now = time.Date(2026, 8, 31, 0, 1, 0, 0, time.UTC)
	exceeded, err = g.HasExceededMax(ctx, "carol@example.com", "10.0.0.3")
	require.NoError(t, err)
	assert.False(t, exceeded)
}

func TestPairsAreIndependent(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGuard(time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC))

	for i := 0; i < MaxAttempts; i++ {
		require.NoError(t, g.RecordAttempt(ctx, "dave@example.com", "10.0.0.4", false))
	}

	// Same email from another address is not locked out.
	exceeded, err := g.HasExceededMax(ctx, "dave@example.com", "10.0.0.5")
	require.NoError(t, err)
	assert.False(t, exceeded)

	// Another email from the same address is not locked out.
	exceeded, err = g.HasExceededMax(ctx, "erin@example.com", "10.0.0.4")
	require.NoError(t, err)
	assert.False(t, exceeded)
}

func TestAttemptsInfo(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGuard(time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC))

	info, err := g.AttemptsInfo(ctx, "frank@example.com", "10.0.0.6")
	require.NoError(t, err)
	assert.Equal(t, MaxAttempts, info.Remaining)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), info.NextReset)

	for i := 0; i < 2; i++ {
		require.NoError(t, g.RecordAttempt(ctx, "frank@example.com", "10.0.0.6", false))
	}

	info, err = g.AttemptsInfo(ctx, "frank@example.com", "10.0.0.6")
	require.NoError(t, err)
	assert.Equal(t, MaxAttempts-2, info.Remaining)

	// Remaining never goes negative.
	for i := 0; i < 10; i++ {
		require.NoError(t, g.RecordAttempt(ctx, "frank@example.com", "10.0.0.6", false))
	}
	info, err = g.AttemptsInfo(ctx, "frank@example.com", "10.0.0.6")
	require.NoError(t, err)
	assert.Equal(t, 0, info.Remaining)
}

func TestLimitExceededError(t *testing.T) {
	g, _ := newTestGuard(time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC))

	msg := g.LimitExceededError(Info{
		NextReset: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, "LIMIT_EXCEEDED:2026-09-01", msg)
}
