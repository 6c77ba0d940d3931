package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitPacesSameHost(t *testing.T) {
	t.Parallel()
	l := New(20) // 50ms between tokens

	ctx := context.Background()
	start := time.Now()
	require.NoError(t, l.Wait(ctx, "https://example.org/muslim/1"))
	require.NoError(t, l.Wait(ctx, "https://example.org/muslim/2"))
	require.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestWaitLeavesDistinctHostsIndependent(t *testing.T) {
	t.Parallel()
	l := New(20)

	ctx := context.Background()
	require.NoError(t, l.Wait(ctx, "https://a.example.org/x"))

	start := time.Now()
	require.NoError(t, l.Wait(ctx, "https://b.example.org/x"))
	require.Less(t, time.Since(start), 40*time.Millisecond)
}

func TestZeroQPSDisablesLimiting(t *testing.T) {
	t.Parallel()
	l := New(0)

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 50; i++ {
		require.NoError(t, l.Wait(ctx, "https://example.org/x"))
	}
	require.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestWaitHonorsContext(t *testing.T) {
	t.Parallel()
	l := New(1)
	ctx := context.Background()
	require.NoError(t, l.Wait(ctx, "https://example.org/x"))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	require.Error(t, l.Wait(canceled, "https://example.org/x"))
}
