package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/fetchmd/pkg/fetchmd"
)

// YAMLWriter writes YAML output. Multi-line Markdown is emitted as a
// literal block scalar.
type YAMLWriter struct {
	w       *bufio.Writer
	encoder *yaml.Encoder
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	bw := bufio.NewWriter(w)
	encoder := yaml.NewEncoder(bw)
	encoder.SetIndent(2)
	return &YAMLWriter{
		w:       bw,
		encoder: encoder,
	}
}

// Write encodes doc as a YAML document.
func (w *YAMLWriter) Write(doc *fetchmd.Document) error {
	return w.encoder.Encode(doc)
}

// Close finishes the YAML stream and flushes the buffer.
func (w *YAMLWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		return err
	}
	return w.w.Flush()
}
