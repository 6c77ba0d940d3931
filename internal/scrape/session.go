package scrape

import (
	"context"
	"time"
)

// Selectors for the page structure this pipeline is built against.
const (
	blockSelector       = "div.actualHadithContainer"
	primarySelector     = "div.arabic_hadith_full"
	translationSelector = "div.english_hadith_full"
	referenceSelector   = "div.hadith_reference"
	gradeSelector       = "div.gradings"
	nextSelector        = "a[rel='next'], a[href*='?page=']"
)

// Block is a handle to one content block on the current page. Text reads may
// fail after the session navigates away (stale handle).
type Block interface {
	// Text returns the trimmed text of the first descendant matching the
	// selector, or an empty string if none exists.
	Text(ctx context.Context, selector string) (string, error)
}

// Session is the page-access capability required by the walker. Any browser
// automation or HTTP+DOM backend satisfying it is substitutable. A session is
// exclusively owned by one volume worker for its whole lifetime.
type Session interface {
	// Navigate loads the given URL.
	Navigate(ctx context.Context, url string) error
	// WaitFor blocks until at least one element matching selector is present,
	// or fails with ErrNavigationTimeout after the timeout.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	// Blocks returns handles to all elements matching selector on the
	// current page.
	Blocks(ctx context.Context, selector string) ([]Block, error)
	// NextPageURL returns the absolute URL of the pagination link on the
	// current page, if one exists.
	NextPageURL(ctx context.Context, selector string) (string, bool, error)
	// Close releases the session's resources.
	Close()
}

// SessionFactory creates sessions and owns the shared backend resources
// (browser process, HTTP transport).
type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
	Close()
}
