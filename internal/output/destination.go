package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jmylchreest/fetchmd/pkg/fetchmd"
)

// Destination is a file path, or stdout when empty or "-".
type Destination string

// IsStdout reports whether d refers to standard output.
func (d Destination) IsStdout() bool {
	return d == "" || d == "-"
}

// outputFileMode is applied to files before they are moved into place.
const outputFileMode = 0o644

// Emit renders doc in format to dest. Markdown written to a file carries no
// trailing newline; on stdout one is appended. A file destination is
// replaced only once the whole document has been written, so a failure
// leaves any existing file untouched.
func Emit(dest Destination, stdout io.Writer, format Format, doc *fetchmd.Document) error {
	if format == "" {
		format = FormatMarkdown
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return err
	}

	if dest.IsStdout() {
		return render(stdout, format, doc, true)
	}
	return writeFileAtomic(string(dest), func(w io.Writer) error {
		return render(w, format, doc, false)
	})
}

// render writes doc to w through the writer for format.
func render(w io.Writer, format Format, doc *fetchmd.Document, trailingNewline bool) error {
	ow, err := NewWriter(w, format, WithTrailingNewline(trailingNewline))
	if err != nil {
		return err
	}
	if err := ow.Write(doc); err != nil {
		return fmt.Errorf("writing %s output: %w", format, err)
	}
	if err := ow.Close(); err != nil {
		return fmt.Errorf("writing %s output: %w", format, err)
	}
	return nil
}

// writeFileAtomic fills a temporary file next to path and renames it over
// path once fill and close succeed. The temporary file is removed on any
// error.
func writeFileAtomic(path string, fill func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = fill(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(outputFileMode); err != nil {
		return fmt.Errorf("setting output file mode: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing output file: %w", err)
	}
	return nil
}
