package scrape

import (
	"context"
	"math/rand/v2"
	"time"
)

// pauseController abstracts how the pipeline backs off between requests so
// tests can skip the waiting.
type pauseController interface {
	Pause(ctx context.Context, base time.Duration)
}

// timerPauseController sleeps for base plus up to one second of random
// politeness jitter, honoring context cancellation.
type timerPauseController struct{}

func (p *timerPauseController) Pause(ctx context.Context, base time.Duration) {
	delay := base + time.Duration(rand.Float64()*float64(time.Second))
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// noPauseController is used by tests.
type noPauseController struct{}

func (noPauseController) Pause(context.Context, time.Duration) {}
