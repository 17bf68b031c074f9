package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These mirror the conventional hand-off file names between pipeline stages
// and the harvester defaults that work well against attack.mitre.org.
const (
	// DefaultTechniqueFile is the conventional output of the technique
	// scanner and one of the two default inputs of the harvester.
	DefaultTechniqueFile = "mitre_technique_urls.txt"

	// DefaultMitigationFile is the conventional output of the mitigation
	// scanner and the other default input of the harvester.
	DefaultMitigationFile = "mitre_mitigation_urls.txt"

	// DefaultOutputDir is where harvested text files are written.
	DefaultOutputDir = "text_outputs"

	// DefaultWorkers is the number of concurrent page fetches. Three keeps
	// a single local Chrome responsive; the pages are heavy single-page
	// renders and more tabs mostly add memory pressure, not throughput.
	DefaultWorkers = 3

	// DefaultNavigationTimeout bounds a single page navigation. The ATT&CK
	// site renders client-side and can take tens of seconds on cold cache,
	// so 30 seconds is deliberately generous.
	DefaultNavigationTimeout = 30 * time.Second

	// DefaultSettleWait is the extra delay after the network goes idle
	// before extracting text, giving client-side rendering time to finish.
	DefaultSettleWait = 500 * time.Millisecond

	// DefaultSelector is the CSS selector whose matching elements are
	// extracted. It targets the main content region of ATT&CK entry pages.
	DefaultSelector = "#v-attckmatrix > .row"

	// ViewportWidth and ViewportHeight fix the browser viewport so that
	// responsive layouts render identically run to run.
	ViewportWidth  = 1280
	ViewportHeight = 1024

	// MaxFilenameLength caps derived output file names. When a sanitized
	// URL exceeds this, it is truncated from the left: the identifier that
	// distinguishes entries trails the string.
	MaxFilenameLength = 180

	// AppName is the application name used for XDG directory paths.
	AppName = "attackharvest"
)

// ScanConfig holds the options for one reference scanner run.
// Populated from CLI arguments and passed explicitly into the scanner;
// there is no module-level mutable state.
type ScanConfig struct {
	// Root is the directory whose .json files are scanned recursively.
	Root string

	// OutputFile is where the sorted URL list is written.
	OutputFile string

	// Verbose enables debug-level logging.
	Verbose bool
}

// NewScanConfig returns a ScanConfig with the defaults for the given
// category output file. Root defaults to the current directory, matching
// the convention of running the tool at the root of a STIX dataset checkout.
func NewScanConfig(defaultOutput string) *ScanConfig {
	return &ScanConfig{
		Root:       ".",
		OutputFile: defaultOutput,
	}
}

// Validate checks the scan configuration.
func (c *ScanConfig) Validate() error {
	if c.Root == "" {
		return ErrNoRoot
	}
	if c.OutputFile == "" {
		return ErrNoOutputFile
	}
	return nil
}

// HarvestConfig holds all options for a harvest run.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type HarvestConfig struct {
	// InputFiles are the URL list files to read. When empty, the harvester
	// looks for DefaultTechniqueFile and DefaultMitigationFile in the
	// current directory and uses whichever exist.
	InputFiles []string

	// OutputDir is the directory harvested text files are written to.
	// Created on demand.
	OutputDir string

	// Workers is the maximum number of concurrent page fetches.
	Workers int

	// NavigationTimeout bounds each page navigation, including the wait
	// for the network to go idle.
	NavigationTimeout time.Duration

	// SettleWait is an extra delay after the network goes idle before
	// text is extracted. Zero disables it.
	SettleWait time.Duration

	// Selector is the CSS selector whose matching elements are extracted.
	Selector string

	// Headless controls whether the browser runs without a UI.
	Headless bool

	// Verbose enables debug-level logging.
	Verbose bool

	// JSONReport enables JSON run-summary output instead of the
	// human-readable format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown run-summary output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output path for the run summary. When empty the
	// summary goes to stdout.
	ReportFile string

	// SaveToDB controls whether harvest outcomes are recorded in the
	// history database. Recording is best-effort: database failures are
	// logged and never fail the run.
	SaveToDB bool

	// DBDir is the directory holding the history database. Defaults to
	// the XDG data directory.
	DBDir string

	// ConfigFilePath is an explicit configuration file path. When empty,
	// the tool searches for .attackharvest in the current directory and
	// then in the user's home directory.
	ConfigFilePath string
}

// NewHarvestConfig creates a HarvestConfig with default values.
//
// Design decision: We use a constructor function instead of relying on zero
// values because most defaults are non-zero (workers, timeout, selector).
// This also serves as documentation of what the defaults are.
func NewHarvestConfig() *HarvestConfig {
	return &HarvestConfig{
		OutputDir:         DefaultOutputDir,
		Workers:           DefaultWorkers,
		NavigationTimeout: DefaultNavigationTimeout,
		SettleWait:        DefaultSettleWait,
		Selector:          DefaultSelector,
		Headless:          true,
		SaveToDB:          true,
		DBDir:             XDGDataDir(),
	}
}

// Validate checks if the harvest configuration is valid. It returns a
// specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each point
// of use to fail fast and provide clear error messages upfront. This is
// called once after CLI parsing, before the browser is launched.
func (c *HarvestConfig) Validate() error {
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.NavigationTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.SettleWait < 0 {
		return ErrInvalidSettleWait
	}
	if c.Selector == "" {
		return ErrNoSelector
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// XDGDataDir returns the XDG data directory for attackharvest.
// On Linux: ~/.local/share/attackharvest
// On macOS: ~/Library/Application Support/attackharvest
// On Windows: %LOCALAPPDATA%\attackharvest
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for attackharvest.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
