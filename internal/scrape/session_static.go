package scrape

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/avast/retry-go/v4"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// StaticFactory serves the session capability over plain HTTP with server-side
// DOM parsing. It is substitutable for the browser backend whenever the source
// renders content blocks without JavaScript.
type StaticFactory struct {
	base    *colly.Collector
	logger  *zap.Logger
	timeout time.Duration
}

// StaticConfig controls the HTTP backend.
type StaticConfig struct {
	UserAgent      string
	RequestTimeout time.Duration
	HostQPS        float64
}

// NewStaticFactory builds a colly collector shared as the template for all
// sessions.
func NewStaticFactory(cfg StaticConfig, logger *zap.Logger) (*StaticFactory, error) {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 25 * time.Second
	}
	base := colly.NewCollector(colly.UserAgent(cfg.UserAgent))
	base.AllowURLRevisit = true
	base.SetRequestTimeout(cfg.RequestTimeout)

	delay := time.Duration(0)
	if cfg.HostQPS > 0 {
		delay = time.Duration(float64(time.Second) / cfg.HostQPS)
	}
	if err := base.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       delay,
	}); err != nil {
		return nil, fmt.Errorf("configure limit rule: %w", err)
	}

	return &StaticFactory{base: base, logger: logger, timeout: cfg.RequestTimeout}, nil
}

// NewSession clones the template collector; each session owns its clone.
func (f *StaticFactory) NewSession(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	return &staticSession{c: f.base.Clone(), logger: f.logger}, nil
}

// Close is a no-op; the collector holds no long-lived resources.
func (f *StaticFactory) Close() {}

type staticSession struct {
	c       *colly.Collector
	logger  *zap.Logger
	doc     *goquery.Document
	current *url.URL
}

// Navigate fetches the URL and parses the response body. Individual fetches
// are retried a couple of times for transport hiccups; the walker-level
// policy handles anything beyond that.
func (s *staticSession) Navigate(ctx context.Context, rawURL string) error {
	var body []byte
	err := retry.Do(
		func() error {
			fetched, ferr := s.fetch(rawURL)
			if ferr != nil {
				return ferr
			}
			body = fetched
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(500*time.Millisecond),
	)
	if err != nil {
		return fmt.Errorf("%w: fetch %s: %v", ErrSessionFault, rawURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrSessionFault, rawURL, err)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: parse url %s: %v", ErrSessionFault, rawURL, err)
	}
	s.doc = doc
	s.current = parsed
	return nil
}

func (s *staticSession) fetch(rawURL string) ([]byte, error) {
	collector := s.c.Clone()
	var (
		body     []byte
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte{}, r.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})
	if err := collector.Visit(rawURL); err != nil {
		return nil, err
	}
	collector.Wait()
	if fetchErr != nil {
		return nil, fetchErr
	}
	if body == nil {
		return nil, fmt.Errorf("empty response for %s", rawURL)
	}
	return body, nil
}

// WaitFor checks presence immediately: a static document either has the
// blocks or never will.
func (s *staticSession) WaitFor(_ context.Context, selector string, timeout time.Duration) error {
	if s.doc == nil {
		return fmt.Errorf("%w: no document loaded", ErrSessionFault)
	}
	if s.doc.Find(selector).Length() == 0 {
		return fmt.Errorf("%w: selector %q after %s", ErrNavigationTimeout, selector, timeout)
	}
	return nil
}

func (s *staticSession) Blocks(_ context.Context, selector string) ([]Block, error) {
	if s.doc == nil {
		return nil, fmt.Errorf("%w: no document loaded", ErrSessionFault)
	}
	var blocks []Block
	s.doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		blocks = append(blocks, &staticBlock{sel: sel})
	})
	return blocks, nil
}

func (s *staticSession) NextPageURL(_ context.Context, selector string) (string, bool, error) {
	if s.doc == nil {
		return "", false, fmt.Errorf("%w: no document loaded", ErrSessionFault)
	}
	var next string
	s.doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok || !strings.Contains(href, "page=") {
			return true
		}
		if ref, err := url.Parse(href); err == nil {
			next = s.current.ResolveReference(ref).String()
			return false
		}
		return true
	})
	return next, next != "", nil
}

func (s *staticSession) Close() {}

type staticBlock struct {
	sel *goquery.Selection
}

func (b *staticBlock) Text(_ context.Context, selector string) (string, error) {
	return strings.TrimSpace(b.sel.Find(selector).First().Text()), nil
}
