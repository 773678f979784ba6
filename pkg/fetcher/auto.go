package fetcher

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/fetchmd/internal/logger"
)

// AutoFetcher tries a plain HTTP fetch first and falls back to a browser
// engine when the fetch fails or the page looks like it needs JavaScript.
type AutoFetcher struct {
	static  Fetcher
	browser Fetcher
}

// NewAuto creates a fetcher that only starts a browser when needed.
func NewAuto(static, browser Fetcher) *AutoFetcher {
	return &AutoFetcher{static: static, browser: browser}
}

// Fetch retrieves targetURL statically, retrying with the browser engine
// if required.
func (f *AutoFetcher) Fetch(ctx context.Context, targetURL string, opts Options) (Content, error) {
	content, err := f.static.Fetch(ctx, targetURL, opts)
	if err != nil {
		if ctx.Err() != nil {
			return content, err
		}
		logger.DebugContext(ctx, "static fetch failed, falling back to browser", "url", targetURL, "error", err)
		return f.browser.Fetch(ctx, targetURL, opts)
	}

	if reason := needsJavaScript(content.HTML); reason != "" {
		logger.DebugContext(ctx, "page needs JavaScript, falling back to browser", "url", targetURL, "reason", reason)
		return f.browser.Fetch(ctx, targetURL, opts)
	}

	return content, nil
}

// Type returns the engine name.
func (f *AutoFetcher) Type() string {
	return string(EngineAuto)
}

// Empty mount points left by client-rendered frameworks.
var spaMarkers = []string{
	`<div id="root"></div>`,
	`<div id="app"></div>`,
	`<app-root></app-root>`,
	`<div id="__next"></div>`,
	`<div id="__nuxt"></div>`,
	`data-reactroot`,
	`ng-app`,
	`v-cloak`,
}

// Phrases shown by pages that render nothing without scripts.
var jsIndicators = []string{
	"loading",
	"please wait",
	"javascript required",
	"enable javascript",
}

// minStaticText is the body text length below which a page is suspected of
// being an unrendered shell.
const minStaticText = 100

// needsJavaScript returns a short reason when html appears to require
// script execution to show its content, or "" when it looks complete.
func needsJavaScript(html string) string {
	lower := strings.ToLower(html)
	for _, marker := range spaMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return "spa marker " + marker
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	noscript := strings.ToLower(doc.Find("noscript").Text())
	if strings.Contains(noscript, "javascript") {
		return "noscript warning"
	}

	body := doc.Find("body").Clone()
	body.Find("script, style, noscript").Remove()
	text := strings.ToLower(strings.TrimSpace(body.Text()))
	if len(text) < minStaticText {
		for _, indicator := range jsIndicators {
			if strings.Contains(text, indicator) {
				return "loading placeholder"
			}
		}
		if text == "" {
			return "empty body"
		}
	}

	return ""
}
