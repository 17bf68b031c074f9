package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/attackharvest/attackharvest/internal/config"
	"github.com/attackharvest/attackharvest/internal/log"
	"github.com/attackharvest/attackharvest/internal/scanner"
)

// NewTechniquesCmd creates the techniques scanner command.
func NewTechniquesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "techniques [root_dir] [output_file]",
		Short: "Extract unique ATT&CK technique URLs from STIX bundles",
		Long: `Techniques scans all JSON files under the root directory for STIX objects
of type "attack-pattern" and collects external references where
source_name == "mitre-attack" and a url is present.

Writes one URL per line, sorted by technique identifier, to the output file
(default: ` + config.DefaultTechniqueFile + `).

Examples:
  # Scan the current directory
  attackharvest techniques

  # Scan a CTI checkout into a custom file
  attackharvest techniques ./cti technique_urls.txt`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := scanner.Techniques(config.DefaultTechniqueFile)
			return runScanCmd(cmd, args, category)
		},
	}
}

// NewMitigationsCmd creates the mitigations scanner command.
func NewMitigationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mitigations [root_dir] [output_file]",
		Short: "Extract unique ATT&CK mitigation URLs from STIX bundles",
		Long: `Mitigations scans all JSON files under the root directory for STIX objects
and collects external references where source_name == "mitre-attack" that
point at mitigations. It accepts explicit urls containing /mitigations/ and
also constructs canonical mitigation URLs when an external_id like "M1234"
exists but no url is present.

Writes one URL per line, sorted by mitigation identifier, to the output file
(default: ` + config.DefaultMitigationFile + `).

Examples:
  # Scan the current directory
  attackharvest mitigations

  # Scan a CTI checkout into a custom file
  attackharvest mitigations ./cti mitigation_urls.txt`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := scanner.Mitigations(config.DefaultMitigationFile)
			return runScanCmd(cmd, args, category)
		},
	}
}

// runScanCmd executes one scanner category over the positional arguments.
func runScanCmd(cmd *cobra.Command, args []string, category scanner.Category) error {
	cfg := buildScanConfig(cmd, args, category)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	fmt.Fprintf(cmd.OutOrStdout(), "Scanning JSON files under: %s\n", cfg.Root)

	s := scanner.New(category, scanner.WithLogger(logger))
	urls, err := s.Scan(cfg.Root)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(urls) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No %s URLs found.\n", category.Name)
		return nil
	}

	if err := scanner.WriteList(cfg.OutputFile, urls); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d unique %s URLs to: %s\n",
		len(urls), category.Name, cfg.OutputFile)
	return nil
}

// buildScanConfig creates a ScanConfig from the command's positional
// arguments: [root_dir] [output_file], both optional.
func buildScanConfig(cmd *cobra.Command, args []string, category scanner.Category) *config.ScanConfig {
	cfg := config.NewScanConfig(category.DefaultOutputFile)
	if len(args) > 0 {
		cfg.Root = args[0]
	}
	if len(args) > 1 {
		cfg.OutputFile = args[1]
	}
	cfg.Verbose = getVerboseFlag(cmd)
	return cfg
}
