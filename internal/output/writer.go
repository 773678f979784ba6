// Package output renders converted documents to their destination.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/fetchmd/pkg/fetchmd"
)

// Format represents output format types.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{FormatMarkdown, FormatJSON, FormatYAML}

// ParseFormat converts a user supplied value into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatMarkdown, FormatJSON, FormatYAML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unsupported output format: %s (use markdown, json or yaml)", s)
}

// Writer handles output serialization.
type Writer interface {
	// Write outputs a single document.
	Write(doc *fetchmd.Document) error

	// Close flushes buffered output. It does not close the underlying writer.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	trailingNewline bool
}

// WithTrailingNewline controls whether Markdown output ends with a newline.
func WithTrailingNewline(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.trailingNewline = enabled
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		trailingNewline: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatMarkdown, "":
		return NewMarkdownWriter(w, cfg.trailingNewline), nil
	case FormatJSON:
		return NewJSONWriter(w, true, "  "), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
