package config

import "errors"

// Configuration validation errors.
// These errors are returned by the Validate methods and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances in Validate(). This allows callers to use errors.Is()
// for programmatic error handling while still providing human-readable
// messages.
var (
	// ErrNoRoot is returned when the scan root directory is empty.
	ErrNoRoot = errors.New("no root directory specified")

	// ErrNoOutputFile is returned when the scanner output file is empty.
	ErrNoOutputFile = errors.New("no output file specified")

	// ErrNoOutputDir is returned when the harvest output directory is empty.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	// Zero workers would mean no fetches ever run.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidTimeout is returned when the navigation timeout is not
	// positive. A zero timeout would fail every navigation immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidSettleWait is returned when the settle wait is negative.
	// Use 0 to disable the extra wait.
	ErrInvalidSettleWait = errors.New("invalid wait: must be non-negative")

	// ErrNoSelector is returned when the CSS selector is empty.
	ErrNoSelector = errors.New("no selector specified")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrNoInputFiles is returned when no input URL list files were given
	// and neither conventional default file exists. This is a fatal
	// precondition: the harvester aborts before launching the browser.
	ErrNoInputFiles = errors.New("no input URL files provided and no default files found")
)
