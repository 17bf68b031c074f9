package report

import (
	"encoding/json"
	"io"

	"github.com/attackharvest/attackharvest/internal/model"
)

// JSONWriter outputs harvest run summaries in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because it is sufficient for our needs and behaves
// consistently across Go versions.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// countingWriter tracks bytes written so Write can report a length even
// though encoding/json streams directly to the destination.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

// Write outputs the harvest run summary as JSON.
func (w *JSONWriter) Write(report *model.HarvestReport) (int, error) {
	cw := &countingWriter{w: w.output}
	encoder := json.NewEncoder(cw)
	if w.indent {
		encoder.SetIndent("", "  ")
	}
	err := encoder.Encode(report)
	return cw.n, err
}
