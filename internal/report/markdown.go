package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/attackharvest/attackharvest/internal/model"
)

// MarkdownWriter outputs harvest run summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the harvest run summary in Markdown format.
func (w *MarkdownWriter) Write(report *model.HarvestReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeOutcome(md, report)
	w.writeFailures(md, report)
	w.writeRecords(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.HarvestReport) {
	md.H1("Harvest Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Started", report.Started.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", report.Elapsed.Round(time.Millisecond).String()},
			{"Output directory", "`" + report.OutputDir + "`"},
			{"Selector", "`" + report.Selector + "`"},
		},
	})
	md.PlainText("")
}

// writeOutcome writes the aggregate outcome section.
func (w *MarkdownWriter) writeOutcome(md *markdown.Markdown, report *model.HarvestReport) {
	md.H2("Outcome")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Result", "Count"},
		Rows: [][]string{
			{"✅ Succeeded", strconv.Itoa(report.Succeeded())},
			{"❌ Failed", strconv.Itoa(report.FailedCount())},
			{"**Total**", "**" + strconv.Itoa(report.Total()) + "**"},
		},
	})
	md.PlainText("")

	if report.FailedCount() == 0 {
		md.Note("All URLs harvested successfully.")
	} else {
		md.Warningf("%d URL(s) failed; their output files are absent.", report.FailedCount())
	}
	md.PlainText("")
}

// writeFailures writes the failed URLs section, omitted when empty.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, report *model.HarvestReport) {
	failures := report.Failures()
	if len(failures) == 0 {
		return
	}

	md.H2("Failures")
	md.PlainText("")

	rows := make([][]string, 0, len(failures))
	for i := range failures {
		rows = append(rows, []string{failures[i].URL, failures[i].Error})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeRecords writes the per-URL outcome table.
func (w *MarkdownWriter) writeRecords(md *markdown.Markdown, report *model.HarvestReport) {
	if len(report.Records) == 0 {
		return
	}

	md.H2("Records")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Records))
	for i := range report.Records {
		rec := &report.Records[i]
		status := "OK"
		if rec.Failed() {
			status = "FAIL"
		}
		rows = append(rows, []string{
			rec.URL,
			status,
			rec.OutputFile,
			strconv.Itoa(rec.Bytes),
			rec.Elapsed.Round(time.Millisecond).String(),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status", "Output file", "Bytes", "Elapsed"},
		Rows:   rows,
	})
}
