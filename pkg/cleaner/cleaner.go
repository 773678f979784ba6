// Package cleaner turns rendered HTML into Markdown. Each stage implements
// Cleaner so the pipeline can be composed, reordered, or tested in isolation:
// noise stripping, HTML to Markdown conversion, then blank-line normalization.
package cleaner

import (
	"fmt"
	"strings"
)

// Cleaner transforms content from one stage of the pipeline to the next.
type Cleaner interface {
	// Clean transforms the input. Stages before the Markdown converter
	// take and return HTML; later stages take and return Markdown.
	Clean(content string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}

// HeadingStyle selects how Markdown headings are rendered.
type HeadingStyle string

const (
	// HeadingATX renders "# Title".
	HeadingATX HeadingStyle = "atx"
	// HeadingUnderlined renders Setext headings, "Title" over a line of "=".
	HeadingUnderlined HeadingStyle = "underlined"
)

// HeadingStyles lists every accepted heading style.
var HeadingStyles = []HeadingStyle{HeadingATX, HeadingUnderlined}

// ParseHeadingStyle converts a user supplied value into a HeadingStyle.
func ParseHeadingStyle(s string) (HeadingStyle, error) {
	switch HeadingStyle(strings.ToLower(strings.TrimSpace(s))) {
	case HeadingATX:
		return HeadingATX, nil
	case HeadingUnderlined:
		return HeadingUnderlined, nil
	}
	return "", fmt.Errorf("invalid heading style %q (use atx or underlined)", s)
}

// Options configures HTML to Markdown conversion.
type Options struct {
	// StripNoise removes script/style/noscript elements and nav, footer
	// or aside blocks whose class names look like page chrome.
	StripNoise bool

	// IncludeImages keeps image references in the Markdown output.
	IncludeImages bool

	HeadingStyle HeadingStyle
}

// DefaultOptions returns the CLI defaults.
func DefaultOptions() Options {
	return Options{
		StripNoise:    true,
		IncludeImages: true,
		HeadingStyle:  HeadingATX,
	}
}
