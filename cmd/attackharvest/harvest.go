package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/attackharvest/attackharvest/internal/browser"
	"github.com/attackharvest/attackharvest/internal/config"
	"github.com/attackharvest/attackharvest/internal/database"
	"github.com/attackharvest/attackharvest/internal/harvester"
	"github.com/attackharvest/attackharvest/internal/log"
	"github.com/attackharvest/attackharvest/internal/model"
	"github.com/attackharvest/attackharvest/internal/report"
)

// NewHarvestCmd creates the harvest command.
func NewHarvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Fetch URL list pages and save selector text to files",
		Long: `Harvest reads one-or-more input files with one URL per line (defaults to
` + config.DefaultTechniqueFile + ` and ` + config.DefaultMitigationFile + ` if present),
navigates to each page with a headless browser, extracts the visible text
from elements matching the CSS selector and writes that plain text to
filesystem-safe .txt files in the output directory.

Fetches run concurrently under a worker limit; a single URL's failure is
logged and never aborts the others.

Examples:
  # Harvest the conventional scanner outputs
  attackharvest harvest

  # Custom inputs, more workers
  attackharvest harvest --inputs technique_urls.txt --output texts --workers 5

  # Watch the browser work
  attackharvest harvest --no-headless

  # Emit a markdown run summary
  attackharvest harvest --markdown --report harvest.md`,
		Args: cobra.NoArgs,
		RunE: runHarvestCmd,
	}

	// Input/output flags
	cmd.Flags().StringSliceP("inputs", "i", nil,
		"Input text files with one URL per line")
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Output directory for text files")

	// Fetch behavior flags
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of concurrent page fetches")
	cmd.Flags().Int("timeout", int(config.DefaultNavigationTimeout/time.Millisecond),
		"Navigation timeout in milliseconds")
	cmd.Flags().Bool("no-headless", false,
		"Run browser with UI (not recommended)")
	cmd.Flags().Float64("wait", config.DefaultSettleWait.Seconds(),
		"Extra wait seconds after network idle before extracting")
	cmd.Flags().String("selector", config.DefaultSelector,
		"CSS selector to extract text from")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .attackharvest in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON run summary (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown run summary (mutually exclusive with --json)")
	cmd.Flags().String("report", "",
		"Write run summary to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-db", false,
		"Do not record this run in the harvest history database")

	return cmd
}

// runHarvestCmd executes the harvest command.
func runHarvestCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildHarvestConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runHarvest(ctx, cmd, cfg, logger)
}

// buildHarvestConfig creates a HarvestConfig from cobra command flags,
// merging in the optional configuration file for flags the user left at
// their defaults.
func buildHarvestConfig(cmd *cobra.Command) (*config.HarvestConfig, error) {
	cfg := config.NewHarvestConfig()

	var err error
	cfg.InputFiles, err = cmd.Flags().GetStringSlice("inputs")
	if err != nil {
		return nil, err
	}

	cfg.OutputDir, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Workers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}

	timeoutMS, err := cmd.Flags().GetInt("timeout")
	if err != nil {
		return nil, err
	}
	cfg.NavigationTimeout = time.Duration(timeoutMS) * time.Millisecond

	noHeadless, err := cmd.Flags().GetBool("no-headless")
	if err != nil {
		return nil, err
	}
	cfg.Headless = !noHeadless

	waitSeconds, err := cmd.Flags().GetFloat64("wait")
	if err != nil {
		return nil, err
	}
	cfg.SettleWait = time.Duration(waitSeconds * float64(time.Second))

	cfg.Selector, err = cmd.Flags().GetString("selector")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Merge config file values under flags the user did not set.
	// An explicitly specified config file that doesn't exist is an error;
	// a missing default-location file is not.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(cf, cmd.Flags().Changed)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

// runHarvest executes the harvest: resolve inputs, launch the browser,
// fetch everything, then emit the run summary and record history.
func runHarvest(ctx context.Context, cmd *cobra.Command, cfg *config.HarvestConfig, logger *slog.Logger) error {
	// Both input resolution failures are fatal preconditions: the
	// browser must not be launched when there is nothing to fetch.
	inputFiles, err := harvester.ResolveInputFiles(cfg.InputFiles)
	if err != nil {
		return err
	}

	urls := harvester.ReadURLs(inputFiles, logger)
	if len(urls) == 0 {
		return errors.New("no URLs found in input files")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Harvesting %d URLs into %s (workers: %d)\n",
		len(urls), cfg.OutputDir, cfg.Workers)
	logger.Info("harvest configured",
		"inputs", inputFiles,
		"selector", cfg.Selector,
		"headless", cfg.Headless,
	)

	engine, err := browser.NewEngine(ctx, browser.Options{
		Headless:          cfg.Headless,
		NavigationTimeout: cfg.NavigationTimeout,
		SettleWait:        cfg.SettleWait,
		Selector:          cfg.Selector,
		ViewportWidth:     config.ViewportWidth,
		ViewportHeight:    config.ViewportHeight,
	})
	if err != nil {
		return err
	}
	defer engine.Close()

	h := harvester.New(engine, cfg.OutputDir, cfg.Selector,
		harvester.WithWorkers(cfg.Workers),
		harvester.WithLogger(logger),
	)

	startTime := time.Now()
	harvestReport, err := h.Run(ctx, urls)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	cancelled := errors.Is(err, context.Canceled)

	fmt.Fprintf(cmd.OutOrStdout(), "Harvest completed in %s\n\n",
		time.Since(startTime).Round(time.Millisecond))

	if err := outputReport(cfg, harvestReport); err != nil {
		logger.Error("report failed", "error", err)
	}

	// History recording is best-effort: a broken database must not fail
	// a harvest whose text files are already on disk.
	saveReport(cfg, harvestReport, logger)

	if cancelled {
		return context.Canceled
	}
	return nil
}

// outputReport outputs the run summary in the requested format.
func outputReport(cfg *config.HarvestConfig, harvestReport *model.HarvestReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithIndent())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(harvestReport)
	return err
}

// saveReport records the run in the harvest history database when enabled.
// It runs on its own short-lived context: an interrupted run's partial
// history is still worth recording, and the run context is already cancelled
// by the time a SIGINT harvest reaches this point.
func saveReport(cfg *config.HarvestConfig, harvestReport *model.HarvestReport, logger *slog.Logger) {
	if !cfg.SaveToDB {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("failed to open history database", "dir", cfg.DBDir, "error", err)
		return
	}
	defer db.Close()

	runID, err := db.SaveReport(ctx, harvestReport)
	if err != nil {
		logger.Warn("failed to save harvest history", "error", err)
		return
	}
	logger.Info("harvest history saved", "run_id", runID, "db", db.Path())
}
