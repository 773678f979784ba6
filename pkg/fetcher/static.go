package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/jmylchreest/fetchmd/internal/logger"
)

// StaticFetcher uses Colly for plain HTTP fetching. No JavaScript runs, so
// the wait condition is ignored; use it for server-rendered pages or when no
// browser is installed.
type StaticFetcher struct{}

// NewStatic creates a new static fetcher.
func NewStatic() *StaticFetcher {
	return &StaticFetcher{}
}

// Fetch retrieves page content using Colly.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string, opts Options) (Content, error) {
	opts = opts.withDefaults()
	logger.DebugContext(ctx, "static fetch starting", "url", targetURL, "timeout", opts.Timeout)

	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
		Engine:    f.Type(),
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	// Create a new collector for each request
	c := colly.NewCollector(
		colly.UserAgent(opts.UserAgent),
		colly.StdlibContext(timeoutCtx),
	)
	c.SetRequestTimeout(opts.Timeout)

	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		result.FinalURL = r.Request.URL.String()
		result.HTML = string(r.Body)
		logger.DebugContext(timeoutCtx, "static fetch response received",
			"status", r.StatusCode,
			"content_type", r.Headers.Get("Content-Type"),
			"body_size", len(r.Body))
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.StatusCode = r.StatusCode
		}
		fetchErr = err
		logger.DebugContext(timeoutCtx, "static fetch error", "status", result.StatusCode, "error", err)
	})

	if err := c.Visit(targetURL); err != nil {
		return result, wrapDeadline(timeoutCtx, fmt.Errorf("failed to visit URL: %w", err))
	}
	if fetchErr != nil {
		return result, wrapDeadline(timeoutCtx, fmt.Errorf("fetch error: %w", fetchErr))
	}

	if result.HTML != "" {
		result.Title = extractTitle(result.HTML)
	}

	logger.DebugContext(ctx, "static fetch complete", "url", targetURL, "title", result.Title)
	return result, nil
}

// Type returns the engine name.
func (f *StaticFetcher) Type() string {
	return string(EngineStatic)
}

// extractTitle returns the document <title>, or "" if it cannot be parsed.
func extractTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
