package harvester

import (
	"bufio"
	"log/slog"
	"os"
	"strings"

	"github.com/attackharvest/attackharvest/internal/config"
)

// ResolveInputFiles returns the URL list files a harvest run should read.
// Explicitly given files are returned as-is (missing ones are handled later,
// per-file). With no explicit inputs, the two conventional scanner outputs
// in the current directory are used, whichever exist. If neither exists,
// config.ErrNoInputFiles is returned: this is the fatal precondition that
// aborts the run before the browser is launched.
func ResolveInputFiles(inputs []string) ([]string, error) {
	if len(inputs) > 0 {
		return inputs, nil
	}

	var files []string
	for _, candidate := range []string{config.DefaultTechniqueFile, config.DefaultMitigationFile} {
		if _, err := os.Stat(candidate); err == nil {
			files = append(files, candidate)
		}
	}
	if len(files) == 0 {
		return nil, config.ErrNoInputFiles
	}
	return files, nil
}

// ReadURLs reads every nonblank, trimmed line from the given files, in file
// order then line order. Files that do not exist (or cannot be read) are
// logged and skipped, not fatal. Duplicate lines are preserved: each line is
// an independent unit of work.
func ReadURLs(files []string, logger *slog.Logger) []string {
	if logger == nil {
		logger = slog.Default()
	}

	var urls []string
	for _, file := range files {
		f, err := os.Open(file) //nolint:gosec // User-provided input path is intentional
		if err != nil {
			logger.Warn("input file not found", "file", file, "error", err)
			continue
		}

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if u := strings.TrimSpace(scanner.Text()); u != "" {
				urls = append(urls, u)
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Warn("failed to read input file", "file", file, "error", err)
		}
		_ = f.Close()
	}
	return urls
}
