package harvester

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/attackharvest/attackharvest/internal/browser"
	"github.com/attackharvest/attackharvest/internal/config"
	"github.com/attackharvest/attackharvest/internal/model"
)

// Harvester fetches URLs through a browser.Fetcher and writes one text file
// per URL into the output directory.
type Harvester struct {
	fetcher   browser.Fetcher
	outputDir string
	selector  string
	workers   int
	logger    *slog.Logger
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithLogger sets a custom logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harvester) {
		h.logger = logger
	}
}

// WithWorkers sets the maximum number of concurrent fetches.
func WithWorkers(n int) Option {
	return func(h *Harvester) {
		if n > 0 {
			h.workers = n
		}
	}
}

// New creates a Harvester writing into outputDir. The selector is carried
// only for the run report; matching happens inside the Fetcher.
func New(fetcher browser.Fetcher, outputDir, selector string, opts ...Option) *Harvester {
	h := &Harvester{
		fetcher:   fetcher,
		outputDir: outputDir,
		selector:  selector,
		workers:   config.DefaultWorkers,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// Run fetches every URL and persists its extracted text. At most the
// configured number of fetches run simultaneously; every task is awaited,
// and a failed URL is recorded and logged without affecting its siblings.
//
// The returned report holds one record per input URL in input order,
// regardless of the order tasks completed in. The error return is non-nil
// only when the run as a whole was cancelled via ctx.
func (h *Harvester) Run(ctx context.Context, urls []string) (*model.HarvestReport, error) {
	report := model.NewHarvestReport(h.outputDir, h.selector)
	report.Records = make([]model.HarvestRecord, len(urls))

	h.logger.Info("starting harvest",
		"urls", len(urls),
		"workers", h.workers,
		"output_dir", h.outputDir,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.workers)

	for i, url := range urls {
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-gctx.Done():
				report.Records[i] = model.HarvestRecord{URL: url, Error: gctx.Err().Error()}
				return gctx.Err()
			default:
			}

			report.Records[i] = h.harvestOne(gctx, url)
			return nil
		})
	}

	err := g.Wait()
	report.Elapsed = time.Since(report.Started)

	h.logger.Info("harvest complete",
		"total", report.Total(),
		"succeeded", report.Succeeded(),
		"failed", report.FailedCount(),
		"elapsed", report.Elapsed,
	)
	return report, err
}

// harvestOne processes a single URL: fetch, normalize, write. Any failure is
// captured in the record; per-task failures never propagate.
func (h *Harvester) harvestOne(ctx context.Context, url string) model.HarvestRecord {
	start := time.Now()
	record := model.HarvestRecord{URL: url}

	text, err := h.fetcher.Fetch(ctx, url)
	if err != nil {
		record.Error = err.Error()
		record.Elapsed = time.Since(start)
		h.logger.Warn("failed to fetch URL", "url", url, "error", err)
		return record
	}

	// Chrome can hand back decomposed sequences for accented characters;
	// normalize so identical page text produces identical files.
	text = norm.NFC.String(text)

	outPath := filepath.Join(h.outputDir, Filename(url))
	if err := writeTextFile(h.outputDir, outPath, text); err != nil {
		record.Error = err.Error()
		record.Elapsed = time.Since(start)
		h.logger.Warn("failed to write text file", "url", url, "path", outPath, "error", err)
		return record
	}

	record.OutputFile = outPath
	record.Bytes = len(text)
	record.Elapsed = time.Since(start)
	h.logger.Info("saved text", "url", url, "path", outPath, "bytes", record.Bytes)
	return record
}

// writeTextFile writes text to outPath, creating the output directory on
// demand and overwriting any existing file. The write is staged in a
// temporary file and renamed into place so a failed write never leaves a
// partial file behind.
func writeTextFile(dir, outPath, text string) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".harvest-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write text: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close text file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set text file permissions: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move text file into place: %w", err)
	}
	return nil
}
