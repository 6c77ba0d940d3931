package scrape

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy retries an operation with exponential backoff and jitter.
// The zero value is unusable; construct with NewRetryPolicy.
type RetryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	factor      float64
	retryable   func(error) bool
	logger      *zap.Logger
}

// NewRetryPolicy builds a policy. Attempts below one are clamped to one, a
// nil predicate retries every error.
func NewRetryPolicy(maxAttempts int, baseDelay time.Duration, factor float64, retryable func(error) bool, logger *zap.Logger) RetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if factor < 1 {
		factor = 1
	}
	if retryable == nil {
		retryable = func(error) bool { return true }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return RetryPolicy{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		factor:      factor,
		retryable:   retryable,
		logger:      logger,
	}
}

// Do runs op until it succeeds, the attempt budget is spent, or the error is
// not retryable. The final attempt's error is returned as-is.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	delay := p.baseDelay
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if attempt >= p.maxAttempts || !p.retryable(err) {
			return err
		}
		ObserveRetry()
		sleep := delay + randomJitter(time.Second)
		p.logger.Warn("retrying after error",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", p.maxAttempts),
			zap.Duration("sleep", sleep),
			zap.Error(err),
		)
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = time.Duration(float64(delay) * p.factor)
	}
}

// randomJitter returns a duration in [0, limit).
func randomJitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(limit)))
	if err != nil {
		return limit / 2
	}
	return time.Duration(n.Int64())
}
