package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/attackharvest/attackharvest/internal/model"
)

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because it works in all terminals and pipes cleanly to files
// or other tools.
type SimpleWriter struct {
	baseWriter

	// verbose enables the per-URL outcome listing in addition to the
	// aggregate summary.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables per-URL detail in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the harvest run summary as plain text.
func (w *SimpleWriter) Write(report *model.HarvestReport) (int, error) {
	var sb strings.Builder

	sb.WriteString("Harvest Summary\n")
	sb.WriteString("===============\n")
	fmt.Fprintf(&sb, "Started:          %s\n", report.Started.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Elapsed:          %s\n", report.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&sb, "Output directory: %s\n", report.OutputDir)
	fmt.Fprintf(&sb, "Selector:         %s\n", report.Selector)
	fmt.Fprintf(&sb, "URLs:             %d total, %d succeeded, %d failed\n",
		report.Total(), report.Succeeded(), report.FailedCount())

	if failures := report.Failures(); len(failures) > 0 {
		sb.WriteString("\nFailures\n--------\n")
		for i := range failures {
			fmt.Fprintf(&sb, "  %s: %s\n", failures[i].URL, failures[i].Error)
		}
	}

	if w.verbose {
		sb.WriteString("\nRecords\n-------\n")
		for i := range report.Records {
			rec := &report.Records[i]
			if rec.Failed() {
				fmt.Fprintf(&sb, "  FAIL %s (%s): %s\n",
					rec.URL, rec.Elapsed.Round(time.Millisecond), rec.Error)
				continue
			}
			fmt.Fprintf(&sb, "  OK   %s -> %s (%d bytes, %s)\n",
				rec.URL, rec.OutputFile, rec.Bytes, rec.Elapsed.Round(time.Millisecond))
		}
	}

	return w.output.Write([]byte(sb.String()))
}
