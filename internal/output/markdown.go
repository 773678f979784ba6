package output

import (
	"bufio"
	"io"

	"github.com/jmylchreest/fetchmd/pkg/fetchmd"
)

// MarkdownWriter writes the Markdown body verbatim.
type MarkdownWriter struct {
	w               *bufio.Writer
	trailingNewline bool
}

// NewMarkdownWriter creates a Markdown writer.
func NewMarkdownWriter(w io.Writer, trailingNewline bool) *MarkdownWriter {
	return &MarkdownWriter{
		w:               bufio.NewWriter(w),
		trailingNewline: trailingNewline,
	}
}

// Write outputs the document's Markdown.
func (w *MarkdownWriter) Write(doc *fetchmd.Document) error {
	if _, err := w.w.WriteString(doc.Markdown); err != nil {
		return err
	}
	if w.trailingNewline {
		if err := w.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes the buffer.
func (w *MarkdownWriter) Close() error {
	return w.w.Flush()
}
