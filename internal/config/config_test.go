package config

import (
	"errors"
	"testing"
	"time"
)

// TestNewScanConfig verifies the scanner defaults. Defaults are documented
// through tests so changes to them are intentional.
func TestNewScanConfig(t *testing.T) {
	t.Parallel()

	cfg := NewScanConfig(DefaultTechniqueFile)

	t.Run("default Root is current directory", func(t *testing.T) {
		t.Parallel()
		if cfg.Root != "." {
			t.Errorf("expected Root to be '.', got '%s'", cfg.Root)
		}
	})

	t.Run("default OutputFile is the category default", func(t *testing.T) {
		t.Parallel()
		if cfg.OutputFile != DefaultTechniqueFile {
			t.Errorf("expected OutputFile to be '%s', got '%s'", DefaultTechniqueFile, cfg.OutputFile)
		}
	})

	t.Run("default Verbose is false", func(t *testing.T) {
		t.Parallel()
		if cfg.Verbose {
			t.Error("expected Verbose to be false")
		}
	})
}

// TestScanConfigValidate tests the scan validation rules.
func TestScanConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		cfg := NewScanConfig(DefaultMitigationFile)
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty root returns ErrNoRoot", func(t *testing.T) {
		t.Parallel()
		cfg := NewScanConfig(DefaultMitigationFile)
		cfg.Root = ""
		if err := cfg.Validate(); !errors.Is(err, ErrNoRoot) {
			t.Errorf("expected ErrNoRoot, got %v", err)
		}
	})

	t.Run("empty output file returns ErrNoOutputFile", func(t *testing.T) {
		t.Parallel()
		cfg := NewScanConfig(DefaultMitigationFile)
		cfg.OutputFile = ""
		if err := cfg.Validate(); !errors.Is(err, ErrNoOutputFile) {
			t.Errorf("expected ErrNoOutputFile, got %v", err)
		}
	})
}

// TestNewHarvestConfig verifies that NewHarvestConfig returns the documented
// defaults.
func TestNewHarvestConfig(t *testing.T) {
	t.Parallel()

	cfg := NewHarvestConfig()

	t.Run("default OutputDir is text_outputs", func(t *testing.T) {
		t.Parallel()
		if cfg.OutputDir != "text_outputs" {
			t.Errorf("expected OutputDir to be 'text_outputs', got '%s'", cfg.OutputDir)
		}
	})

	t.Run("default Workers is 3", func(t *testing.T) {
		t.Parallel()
		if cfg.Workers != 3 {
			t.Errorf("expected Workers to be 3, got %d", cfg.Workers)
		}
	})

	t.Run("default NavigationTimeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.NavigationTimeout != 30*time.Second {
			t.Errorf("expected NavigationTimeout to be 30s, got %v", cfg.NavigationTimeout)
		}
	})

	t.Run("default SettleWait is 500 milliseconds", func(t *testing.T) {
		t.Parallel()
		if cfg.SettleWait != 500*time.Millisecond {
			t.Errorf("expected SettleWait to be 500ms, got %v", cfg.SettleWait)
		}
	})

	t.Run("default Selector targets the ATT&CK content region", func(t *testing.T) {
		t.Parallel()
		if cfg.Selector != "#v-attckmatrix > .row" {
			t.Errorf("expected Selector to be '#v-attckmatrix > .row', got '%s'", cfg.Selector)
		}
	})

	t.Run("default Headless is true", func(t *testing.T) {
		t.Parallel()
		if !cfg.Headless {
			t.Error("expected Headless to be true")
		}
	})

	t.Run("default SaveToDB is true", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
	})

	t.Run("default InputFiles is empty", func(t *testing.T) {
		t.Parallel()
		if len(cfg.InputFiles) != 0 {
			t.Errorf("expected InputFiles to be empty, got %v", cfg.InputFiles)
		}
	})
}

// TestHarvestConfigValidate tests each harvest validation rule with a
// minimally broken configuration.
func TestHarvestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		cfg := NewHarvestConfig()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty output dir returns ErrNoOutputDir", func(t *testing.T) {
		t.Parallel()
		cfg := NewHarvestConfig()
		cfg.OutputDir = ""
		if err := cfg.Validate(); !errors.Is(err, ErrNoOutputDir) {
			t.Errorf("expected ErrNoOutputDir, got %v", err)
		}
	})

	t.Run("zero workers returns ErrInvalidWorkers", func(t *testing.T) {
		t.Parallel()
		cfg := NewHarvestConfig()
		cfg.Workers = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidWorkers) {
			t.Errorf("expected ErrInvalidWorkers, got %v", err)
		}
	})

	t.Run("negative workers returns ErrInvalidWorkers", func(t *testing.T) {
		t.Parallel()
		cfg := NewHarvestConfig()
		cfg.Workers = -1
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidWorkers) {
			t.Errorf("expected ErrInvalidWorkers, got %v", err)
		}
	})

	t.Run("zero timeout returns ErrInvalidTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := NewHarvestConfig()
		cfg.NavigationTimeout = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("negative settle wait returns ErrInvalidSettleWait", func(t *testing.T) {
		t.Parallel()
		cfg := NewHarvestConfig()
		cfg.SettleWait = -time.Second
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidSettleWait) {
			t.Errorf("expected ErrInvalidSettleWait, got %v", err)
		}
	})

	t.Run("zero settle wait is valid", func(t *testing.T) {
		t.Parallel()
		cfg := NewHarvestConfig()
		cfg.SettleWait = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error for zero settle wait, got %v", err)
		}
	})

	t.Run("empty selector returns ErrNoSelector", func(t *testing.T) {
		t.Parallel()
		cfg := NewHarvestConfig()
		cfg.Selector = ""
		if err := cfg.Validate(); !errors.Is(err, ErrNoSelector) {
			t.Errorf("expected ErrNoSelector, got %v", err)
		}
	})

	t.Run("both report formats returns ErrConflictingReportFormats", func(t *testing.T) {
		t.Parallel()
		cfg := NewHarvestConfig()
		cfg.JSONReport = true
		cfg.MarkdownReport = true
		if err := cfg.Validate(); !errors.Is(err, ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("single report format is valid", func(t *testing.T) {
		t.Parallel()
		cfg := NewHarvestConfig()
		cfg.JSONReport = true
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}
