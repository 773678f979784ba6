package output

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/jmylchreest/fetchmd/pkg/fetchmd"
)

// JSONWriter writes each document as a JSON object.
type JSONWriter struct {
	w      *bufio.Writer
	pretty bool
	indent string
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		pretty: pretty,
		indent: indent,
	}
}

// Write encodes doc followed by a newline.
func (w *JSONWriter) Write(doc *fetchmd.Document) error {
	var output []byte
	var err error

	if w.pretty {
		output, err = json.MarshalIndent(doc, "", w.indent)
	} else {
		output, err = json.Marshal(doc)
	}
	if err != nil {
		return err
	}

	if _, err := w.w.Write(output); err != nil {
		return err
	}
	_, err = w.w.WriteString("\n")
	return err
}

// Close flushes the buffer.
func (w *JSONWriter) Close() error {
	return w.w.Flush()
}
