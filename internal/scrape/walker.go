package scrape

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// pageDelayBase is the politeness delay applied before following a
// pagination link; the pause controller adds up to one second of jitter.
const pageDelayBase = 1500 * time.Millisecond

// Walker drives one volume's paginated listing sequentially. It performs a
// single pass; the volume worker wraps Walk in the retry policy.
type Walker struct {
	timeout time.Duration
	pauser  pauseController
	logger  *zap.Logger
}

// NewWalker builds a walker with the per-request block wait timeout.
func NewWalker(timeout time.Duration, logger *zap.Logger) *Walker {
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &Walker{
		timeout: timeout,
		pauser:  &timerPauseController{},
		logger:  logger,
	}
}

// Walk navigates from startURL, visiting every content block on every page
// until no pagination link remains. The context is checked at each page
// boundary so cancellation lets the current page finish cleanly.
func (w *Walker) Walk(ctx context.Context, sess Session, startURL string, visit func(pageURL string, block Block) error) error {
	current := startURL
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sess.Navigate(ctx, current); err != nil {
			return err
		}
		if err := sess.WaitFor(ctx, blockSelector, w.timeout); err != nil {
			return err
		}
		blocks, err := sess.Blocks(ctx, blockSelector)
		if err != nil {
			return err
		}
		ObservePage()
		w.logger.Debug("page walked", zap.String("url", current), zap.Int("blocks", len(blocks)))

		for _, b := range blocks {
			if err := visit(current, b); err != nil {
				return fmt.Errorf("visit block on %s: %w", current, err)
			}
		}

		next, ok, err := sess.NextPageURL(ctx, nextSelector)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		w.pauser.Pause(ctx, pageDelayBase)
		current = next
	}
}
