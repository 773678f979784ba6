// Package fetchmd wires a page Fetcher to the Markdown conversion pipeline.
//
// Basic usage:
//
//	p := fetchmd.New(
//	    fetchmd.WithFetchOptions(fetcher.Options{WaitFor: fetcher.WaitLoad}),
//	)
//	doc, err := p.Run(ctx, "https://example.com")
//
// Errors returned by Run carry an exitcode.Kind: Fetch for anything raised
// while loading the page and Conversion for failures turning it into
// Markdown.
package fetchmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/fetchmd/internal/exitcode"
	"github.com/jmylchreest/fetchmd/internal/logger"
	"github.com/jmylchreest/fetchmd/pkg/cleaner"
	"github.com/jmylchreest/fetchmd/pkg/fetcher"
)

// Document is the result of a successful Run.
type Document struct {
	URL       string    `json:"url" yaml:"url"`
	FinalURL  string    `json:"final_url,omitempty" yaml:"final_url,omitempty"`
	Title     string    `json:"title,omitempty" yaml:"title,omitempty"`
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
	Engine    string    `json:"engine" yaml:"engine"`
	Markdown  string    `json:"markdown" yaml:"markdown"`
}

// Pipeline fetches one page and converts it to Markdown.
type Pipeline struct {
	fetcher     fetcher.Fetcher
	converter   cleaner.Cleaner
	fetchOpts   fetcher.Options
	convertOpts cleaner.Options
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithFetcher sets the page fetcher. Defaults to the chromedp engine.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(p *Pipeline) {
		p.fetcher = f
	}
}

// WithConverter replaces the HTML to Markdown cleaner. When set, the
// conversion options are ignored.
func WithConverter(c cleaner.Cleaner) Option {
	return func(p *Pipeline) {
		p.converter = c
	}
}

// WithFetchOptions sets timeout, wait condition and user agent.
func WithFetchOptions(opts fetcher.Options) Option {
	return func(p *Pipeline) {
		p.fetchOpts = opts
	}
}

// WithConversionOptions sets the options used to build the default converter.
func WithConversionOptions(opts cleaner.Options) Option {
	return func(p *Pipeline) {
		p.convertOpts = opts
	}
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		convertOpts: cleaner.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fetcher == nil {
		p.fetcher = fetcher.NewChrome("")
	}
	if p.converter == nil {
		p.converter = cleaner.NewConverter(p.convertOpts)
	}
	return p
}

// Run fetches url and converts the rendered page. Either a Document or an
// error is returned, never both.
func (p *Pipeline) Run(ctx context.Context, url string) (*Document, error) {
	start := time.Now()
	logger.InfoContext(ctx, "fetching page",
		"url", url,
		"engine", p.fetcher.Type(),
		"wait_for", p.fetchOpts.WaitFor,
		"timeout", p.fetchOpts.Timeout)

	content, err := p.fetcher.Fetch(ctx, url, p.fetchOpts)
	if err != nil {
		if errors.Is(err, fetcher.ErrTimeout) {
			logger.WarnContext(ctx, "page load timed out", "url", url, "timeout", p.fetchOpts.Timeout)
		}
		return nil, exitcode.Wrap(exitcode.Fetch, fmt.Errorf("fetching webpage: %w", err))
	}
	logger.InfoContext(ctx, "page fetched",
		"html_size", humanize.Bytes(uint64(len(content.HTML))),
		"status", content.StatusCode,
		"elapsed", time.Since(start).Round(time.Millisecond))

	convertStart := time.Now()
	markdown, err := p.converter.Clean(content.HTML)
	if err != nil {
		return nil, exitcode.Wrap(exitcode.Conversion, fmt.Errorf("converting to markdown: %w", err))
	}
	logger.InfoContext(ctx, "converted to markdown",
		"converter", p.converter.Name(),
		"markdown_size", humanize.Bytes(uint64(len(markdown))),
		"elapsed", time.Since(convertStart).Round(time.Millisecond))

	return &Document{
		URL:       url,
		FinalURL:  content.FinalURL,
		Title:     content.Title,
		FetchedAt: content.FetchedAt,
		Engine:    content.Engine,
		Markdown:  markdown,
	}, nil
}
