// Package harvester fetches every URL from one or more URL list files and
// persists the extracted page text, one file per URL.
//
// # Concurrency
//
// All URLs are dispatched as independent tasks under a single shared
// browser.Fetcher, gated by errgroup's SetLimit so at most Workers fetches
// run simultaneously. Completion order is unspecified; every task is awaited,
// and one URL's failure never aborts its siblings: the failure is logged,
// recorded, and the run continues.
//
// # Hand-off contract
//
// Input files are read in file order then line order, nonblank trimmed lines
// only, without deduplication: each line is processed independently. Missing
// input files are logged and skipped. Output file names are a sanitized,
// deterministic transform of the URL (see Filename).
package harvester
