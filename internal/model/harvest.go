package model

import "time"

// HarvestRecord is the outcome of fetching a single URL and persisting its
// extracted text.
type HarvestRecord struct {
	// URL is the address that was fetched.
	URL string `json:"url"`

	// OutputFile is the path of the text file written for this URL.
	// Empty when the fetch failed before anything could be written.
	OutputFile string `json:"output_file,omitempty"`

	// Bytes is the number of bytes written to OutputFile.
	// Zero is a valid outcome: a page whose selector matches nothing
	// still produces an empty file.
	Bytes int `json:"bytes"`

	// Elapsed is the wall-clock time spent on this URL, from page open
	// to file write (or failure).
	Elapsed time.Duration `json:"elapsed"`

	// Error holds the failure description for this URL, empty on success.
	// Stored as a string rather than error so the record serializes
	// cleanly to JSON and SQLite.
	Error string `json:"error,omitempty"`
}

// Failed reports whether this record represents a failed fetch.
func (r *HarvestRecord) Failed() bool {
	return r.Error != ""
}

// HarvestReport summarizes a complete harvest run.
type HarvestReport struct {
	// Started is when the run began.
	Started time.Time `json:"started"`

	// Elapsed is the total wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed"`

	// OutputDir is the directory harvested text files were written to.
	OutputDir string `json:"output_dir"`

	// Selector is the CSS selector whose matching elements were extracted.
	Selector string `json:"selector"`

	// Records holds one entry per input URL, in input order.
	Records []HarvestRecord `json:"records"`
}

// NewHarvestReport creates a report for a run over the given configuration.
func NewHarvestReport(outputDir, selector string) *HarvestReport {
	return &HarvestReport{
		Started:   time.Now(),
		OutputDir: outputDir,
		Selector:  selector,
	}
}

// Total returns the number of URLs processed.
func (r *HarvestReport) Total() int {
	return len(r.Records)
}

// Succeeded returns the number of URLs whose text was persisted.
func (r *HarvestReport) Succeeded() int {
	n := 0
	for i := range r.Records {
		if !r.Records[i].Failed() {
			n++
		}
	}
	return n
}

// FailedCount returns the number of URLs that failed.
func (r *HarvestReport) FailedCount() int {
	return r.Total() - r.Succeeded()
}

// Failures returns the records that failed, in input order.
func (r *HarvestReport) Failures() []HarvestRecord {
	var failed []HarvestRecord
	for i := range r.Records {
		if r.Records[i].Failed() {
			failed = append(failed, r.Records[i])
		}
	}
	return failed
}
