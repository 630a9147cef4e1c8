package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"kalpha/internal/errors"
	"kalpha/ports"
)

// Supported output formats
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatText = "txt"
	FormatXLSX = "xlsx"
	FormatHTML = "html"
)

// Formats lists every supported output format
var Formats = []string{FormatJSON, FormatCSV, FormatText, FormatXLSX, FormatHTML}

type renderFunc func(io.Writer, *Bundle) error

var renderers = map[string]renderFunc{
	FormatJSON: renderJSON,
	FormatCSV:  renderCSV,
	FormatText: renderText,
	FormatXLSX: renderXLSX,
	FormatHTML: renderHTML,
}

// Writer persists a bundle in one format
type Writer struct {
	bundle *Bundle
	format string
	render renderFunc
}

var _ ports.ResultWriter = (*Writer)(nil)

// NewWriter creates a writer for format. An empty format is inferred from
// path's extension.
func NewWriter(b *Bundle, format, path string) (*Writer, error) {
	if format == "" {
		format = InferFormat(path)
	}
	format = strings.ToLower(format)
	render, ok := renderers[format]
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported output format %q (use %s)", format, strings.Join(Formats, ", ")))
	}
	return &Writer{bundle: b, format: format, render: render}, nil
}

// InferFormat maps a file extension to a format name, or "" when unknown
func InferFormat(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "json":
		return FormatJSON
	case "csv":
		return FormatCSV
	case "txt", "text":
		return FormatText
	case "xlsx":
		return FormatXLSX
	case "html", "htm":
		return FormatHTML
	default:
		return ""
	}
}

// Format returns the output format name
func (w *Writer) Format() string {
	return w.format
}

// Render writes the bundle to out
func (w *Writer) Render(out io.Writer) error {
	return w.render(out, w.bundle)
}

// Write renders the bundle to path, creating parent directories
func (w *Writer) Write(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.IOError("failed to create output directory", err)
		}
	}

	var buf bytes.Buffer
	if err := w.render(&buf, w.bundle); err != nil {
		return errors.Wrapf(err, "failed to render %s output", w.format)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.IOError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}

// Write is a convenience wrapper around NewWriter and Writer.Write
func Write(b *Bundle, path, format string) error {
	w, err := NewWriter(b, format, path)
	if err != nil {
		return err
	}
	return w.Write(path)
}
