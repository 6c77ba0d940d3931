package scrape

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/johannesgottschalk/hadithAnalyzer/internal/policy/ratelimit"
)

// pageLoadTimeout bounds a single navigation, independent of the block-wait
// timeout supplied per request.
const pageLoadTimeout = 45 * time.Second

// ChromedpFactory owns one headless Chrome process and hands out tab-scoped
// sessions, one per volume worker.
type ChromedpFactory struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	limiter       *ratelimit.Limiter
	logger        *zap.Logger
}

// ChromedpConfig controls the browser backend.
type ChromedpConfig struct {
	Headless  bool
	UserAgent string
	HostQPS   float64
}

// NewChromedpFactory launches the browser and verifies it is usable.
func NewChromedpFactory(cfg ChromedpConfig, logger *zap.Logger) (*ChromedpFactory, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(cfg.UserAgent),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("chromedp warmup: %w", err)
	}
	return &ChromedpFactory{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		limiter:       ratelimit.New(cfg.HostQPS),
		logger:        logger,
	}, nil
}

// NewSession opens a fresh tab.
func (f *ChromedpFactory) NewSession(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	tabCtx, tabCancel := chromedp.NewContext(f.browserCtx)
	return &chromedpSession{
		tabCtx:    tabCtx,
		tabCancel: tabCancel,
		limiter:   f.limiter,
	}, nil
}

// Close tears down the browser and allocator.
func (f *ChromedpFactory) Close() {
	f.browserCancel()
	f.allocCancel()
}

type chromedpSession struct {
	tabCtx    context.Context
	tabCancel context.CancelFunc
	limiter   *ratelimit.Limiter
}

func (s *chromedpSession) Navigate(ctx context.Context, url string) error {
	if err := s.limiter.Wait(ctx, url); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(s.tabCtx, pageLoadTimeout)
	defer cancel()
	stop := forwardCancel(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("%w: navigate %s: %v", ErrSessionFault, url, err)
	}
	return nil
}

func (s *chromedpSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	runCtx, cancel := context.WithTimeout(s.tabCtx, timeout)
	defer cancel()
	stop := forwardCancel(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, chromedp.WaitReady(selector, chromedp.ByQuery))
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: selector %q after %s", ErrNavigationTimeout, selector, timeout)
	}
	return fmt.Errorf("%w: wait for %q: %v", ErrSessionFault, selector, err)
}

func (s *chromedpSession) Blocks(ctx context.Context, selector string) ([]Block, error) {
	runCtx, cancel := context.WithTimeout(s.tabCtx, pageLoadTimeout)
	defer cancel()
	stop := forwardCancel(ctx, cancel)
	defer stop()

	var nodes []*cdp.Node
	err := chromedp.Run(runCtx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return nil, fmt.Errorf("%w: collect blocks: %v", ErrSessionFault, err)
	}
	blocks := make([]Block, 0, len(nodes))
	for _, n := range nodes {
		blocks = append(blocks, &chromedpBlock{tabCtx: s.tabCtx, node: n})
	}
	return blocks, nil
}

func (s *chromedpSession) NextPageURL(ctx context.Context, selector string) (string, bool, error) {
	runCtx, cancel := context.WithTimeout(s.tabCtx, pageLoadTimeout)
	defer cancel()
	stop := forwardCancel(ctx, cancel)
	defer stop()

	js := fmt.Sprintf(`(() => {
		for (const a of document.querySelectorAll(%q)) {
			if (a.href && a.href.includes("page=")) { return a.href; }
		}
		return "";
	})()`, selector)

	var href string
	if err := chromedp.Run(runCtx, chromedp.Evaluate(js, &href)); err != nil {
		return "", false, fmt.Errorf("%w: locate next link: %v", ErrSessionFault, err)
	}
	return href, href != "", nil
}

func (s *chromedpSession) Close() {
	s.tabCancel()
}

type chromedpBlock struct {
	tabCtx context.Context
	node   *cdp.Node
}

// Text reads the trimmed text of the first descendant matching selector.
// AtLeast(0) keeps a missing sub-region from blocking; in that case the
// result is simply empty. Errors indicate a detached node or dead tab.
func (b *chromedpBlock) Text(ctx context.Context, selector string) (string, error) {
	runCtx, cancel := context.WithTimeout(b.tabCtx, pageLoadTimeout)
	defer cancel()
	stop := forwardCancel(ctx, cancel)
	defer stop()

	var out string
	err := chromedp.Run(runCtx, chromedp.Text(selector, &out,
		chromedp.ByQuery, chromedp.FromNode(b.node), chromedp.AtLeast(0)))
	if err != nil {
		return "", fmt.Errorf("%w: block text %q: %v", ErrSessionFault, selector, err)
	}
	return out, nil
}

// forwardCancel propagates cancellation of an outer context into a chromedp
// task context without tying their lifetimes together.
func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}
