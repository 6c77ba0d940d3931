package scrape

import (
	"context"
	"errors"
	"net"
)

// ErrNavigationTimeout indicates a page loaded but no content block appeared
// within the per-request timeout.
var ErrNavigationTimeout = errors.New("navigation timeout: no content blocks appeared")

// ErrSessionFault indicates a browser- or transport-level failure of the
// session itself (navigation error, detached tab, connection fault).
var ErrSessionFault = errors.New("session fault")

// IsTransient reports whether an error is worth retrying the page walk for.
// Context cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNavigationTimeout) || errors.Is(err, ErrSessionFault) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
