package scrape

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetryPolicySucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()
	attempts := 0
	policy := NewRetryPolicy(3, time.Millisecond, 2, IsTransient, testLogger())

	err := policy.Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("%w: flaky page", ErrNavigationTimeout)
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestRetryPolicyExhaustsBudget(t *testing.T) {
	t.Parallel()
	attempts := 0
	policy := NewRetryPolicy(3, time.Millisecond, 2, IsTransient, testLogger())

	err := policy.Do(context.Background(), func() error {
		attempts++
		return fmt.Errorf("%w: still down", ErrSessionFault)
	})
	require.ErrorIs(t, err, ErrSessionFault)
	require.Equal(t, 3, attempts)
}

func TestRetryPolicyStopsOnNonRetryable(t *testing.T) {
	t.Parallel()
	attempts := 0
	policy := NewRetryPolicy(5, time.Millisecond, 2, IsTransient, testLogger())

	fatal := errors.New("bad selector")
	err := policy.Do(context.Background(), func() error {
		attempts++
		return fatal
	})
	require.ErrorIs(t, err, fatal)
	require.Equal(t, 1, attempts)
}

func TestRetryPolicyHonorsContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := NewRetryPolicy(3, time.Minute, 2, IsTransient, testLogger())
	err := policy.Do(ctx, func() error {
		return fmt.Errorf("%w: slow", ErrNavigationTimeout)
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	t.Parallel()
	require.True(t, IsTransient(fmt.Errorf("%w: x", ErrNavigationTimeout)))
	require.True(t, IsTransient(fmt.Errorf("%w: x", ErrSessionFault)))
	require.False(t, IsTransient(nil))
	require.False(t, IsTransient(context.Canceled))
	require.False(t, IsTransient(errors.New("parse error")))
}
