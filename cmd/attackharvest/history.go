package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/attackharvest/attackharvest/internal/config"
	"github.com/attackharvest/attackharvest/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run_id]",
		Short: "Show past harvest runs",
		Long: `History lists harvest runs recorded in the local history database.
Without arguments it shows the most recent runs; with a run ID it shows
the per-URL records of that run.

Examples:
  # Show the last 20 runs
  attackharvest history

  # Show every URL outcome of run 3
  attackharvest history 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", 20, "Maximum number of runs to show")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory holding the history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("no harvest history: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if len(args) == 1 {
		runID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run ID %q: %w", args[0], err)
		}
		return printRunRecords(ctx, cmd, db, runID)
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	return printRecentRuns(ctx, cmd, db, limit)
}

// printRecentRuns prints a table of the most recent harvest runs.
func printRecentRuns(ctx context.Context, cmd *cobra.Command, db *database.HarvestDB, limit int) error {
	runs, err := db.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No harvest runs recorded yet.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%-5s %-20s %-10s %-6s %-6s %-6s %s\n",
		"ID", "STARTED", "ELAPSED", "TOTAL", "OK", "FAIL", "OUTPUT")
	for _, run := range runs {
		fmt.Fprintf(cmd.OutOrStdout(), "%-5d %-20s %-10s %-6d %-6d %-6d %s\n",
			run.ID,
			run.Started.Local().Format("2006-01-02 15:04:05"),
			run.Elapsed.Round(time.Millisecond),
			run.Total,
			run.Succeeded,
			run.Failed,
			run.OutputDir,
		)
	}
	return nil
}

// printRunRecords prints every URL outcome of one run.
func printRunRecords(ctx context.Context, cmd *cobra.Command, db *database.HarvestDB, runID int64) error {
	records, err := db.RunRecords(ctx, runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No records for run %d.\n", runID)
		return nil
	}

	for _, rec := range records {
		if rec.Failed() {
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s (%s): %s\n",
				rec.URL, rec.Elapsed.Round(time.Millisecond), rec.Error)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OK   %s -> %s (%d bytes, %s)\n",
			rec.URL, rec.OutputFile, rec.Bytes, rec.Elapsed.Round(time.Millisecond))
	}
	return nil
}
