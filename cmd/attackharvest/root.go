// Package main provides the entry point for the attackharvest CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for attackharvest.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attackharvest",
		Short: "Extract and harvest MITRE ATT&CK reference pages",
		Long: `attackharvest is a three-stage pipeline over the MITRE ATT&CK knowledge base.

It scans trees of STIX bundle JSON files for external references, extracts
canonical technique and mitigation URLs into flat list files, and fetches
each URL with a headless browser to persist a selected region of rendered
page text to disk.

The stages hand off through plain text files and can be run independently:

  attackharvest techniques  ./cti mitre_technique_urls.txt
  attackharvest mitigations ./cti mitre_mitigation_urls.txt
  attackharvest harvest --output text_outputs`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewTechniquesCmd())
	cmd.AddCommand(NewMitigationsCmd())
	cmd.AddCommand(NewHarvestCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
