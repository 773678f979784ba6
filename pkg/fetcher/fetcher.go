// Package fetcher defines the interface for loading a web page and returning
// its rendered HTML. Engines implementing Fetcher can be swapped or faked in
// tests without touching the conversion logic.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Fetcher abstracts page fetching engines.
type Fetcher interface {
	// Fetch loads url and returns the serialized DOM once the wait
	// condition in opts is met. Every browser resource acquired by Fetch
	// is released before it returns.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Type returns a string identifying the engine (e.g., "chromedp", "static").
	Type() string
}

// WaitCondition is the page readiness signal a fetch blocks on.
type WaitCondition string

const (
	WaitLoad             WaitCondition = "load"
	WaitDOMContentLoaded WaitCondition = "domcontentloaded"
	WaitNetworkIdle      WaitCondition = "networkidle"
)

// WaitConditions lists every accepted condition in CLI order.
var WaitConditions = []WaitCondition{WaitLoad, WaitDOMContentLoaded, WaitNetworkIdle}

// ParseWaitCondition converts a user supplied value into a WaitCondition.
func ParseWaitCondition(s string) (WaitCondition, error) {
	switch WaitCondition(strings.ToLower(strings.TrimSpace(s))) {
	case WaitLoad:
		return WaitLoad, nil
	case WaitDOMContentLoaded:
		return WaitDOMContentLoaded, nil
	case WaitNetworkIdle:
		return WaitNetworkIdle, nil
	}
	return "", fmt.Errorf("invalid wait condition %q (use load, domcontentloaded or networkidle)", s)
}

// lifecycleName maps a condition to Chrome's Page.lifecycleEvent name.
func (w WaitCondition) lifecycleName() string {
	switch w {
	case WaitDOMContentLoaded:
		return "DOMContentLoaded"
	case WaitNetworkIdle:
		return "networkIdle"
	default:
		return "load"
	}
}

// Options controls fetching behavior.
type Options struct {
	Timeout   time.Duration
	WaitFor   WaitCondition
	UserAgent string
}

// Viewport is the fixed window size used by browser engines.
var Viewport = struct{ Width, Height int }{1920, 1080}

// DefaultTimeout applies when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Chrome user agent for better compatibility
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Content represents fetched page data.
type Content struct {
	URL        string
	FinalURL   string
	HTML       string
	Title      string
	StatusCode int
	FetchedAt  time.Time
	Engine     string
}

// ErrTimeout is wrapped into fetch errors caused by the deadline expiring.
// Check with errors.Is(err, fetcher.ErrTimeout).
var ErrTimeout = errors.New("page load timed out")

// withDefaults fills zero values in opts.
func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.WaitFor == "" {
		o.WaitFor = WaitNetworkIdle
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	return o
}

// wrapDeadline marks err as a timeout when ctx expired while err occurred.
func wrapDeadline(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}
