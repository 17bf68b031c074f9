package database

import (
	"context"
	"testing"
	"time"

	"github.com/attackharvest/attackharvest/internal/model"
)

// sampleReport builds a report with one success and one failure.
func sampleReport() *model.HarvestReport {
	return &model.HarvestReport{
		Started:   time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
		Elapsed:   42 * time.Second,
		OutputDir: "text_outputs",
		Selector:  "#v-attckmatrix > .row",
		Records: []model.HarvestRecord{
			{
				URL:        "https://attack.mitre.org/techniques/T1548",
				OutputFile: "text_outputs/attack.mitre.org_techniques_T1548.txt",
				Bytes:      1024,
				Elapsed:    3 * time.Second,
			},
			{
				URL:     "https://attack.mitre.org/techniques/T1003",
				Elapsed: 30 * time.Second,
				Error:   "navigation timeout",
			},
		},
	}
}

// TestOpen tests database creation semantics.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database when allowed", func(t *testing.T) {
		t.Parallel()

		db, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer db.Close()

		if db.Path() == "" {
			t.Error("expected non-empty database path")
		}
	})

	t.Run("refuses to create when not allowed", func(t *testing.T) {
		t.Parallel()

		opts := DefaultOptions()
		opts.CreateIfNotExists = false
		if _, err := Open(t.TempDir(), opts); err == nil {
			t.Error("expected error for missing database, got nil")
		}
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}

		opts := DefaultOptions()
		opts.CreateIfNotExists = false
		db2, err := Open(dir, opts)
		if err != nil {
			t.Fatalf("expected reopen to succeed, got %v", err)
		}
		defer db2.Close()
	})
}

// TestSaveReportRoundTrip tests that a saved run comes back intact through
// RecentRuns and RunRecords.
func TestSaveReportRoundTrip(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	runID, err := db.SaveReport(ctx, sampleReport())
	if err != nil {
		t.Fatalf("failed to save report: %v", err)
	}
	if runID <= 0 {
		t.Fatalf("expected positive run ID, got %d", runID)
	}

	t.Run("RecentRuns returns the saved summary", func(t *testing.T) {
		runs, err := db.RecentRuns(ctx, 10)
		if err != nil {
			t.Fatalf("failed to query runs: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(runs))
		}

		run := runs[0]
		if run.ID != runID {
			t.Errorf("expected run ID %d, got %d", runID, run.ID)
		}
		if run.Total != 2 || run.Succeeded != 1 || run.Failed != 1 {
			t.Errorf("expected counts 2/1/1, got %d/%d/%d", run.Total, run.Succeeded, run.Failed)
		}
		if run.OutputDir != "text_outputs" {
			t.Errorf("expected output dir 'text_outputs', got '%s'", run.OutputDir)
		}
		if run.Selector != "#v-attckmatrix > .row" {
			t.Errorf("expected selector preserved, got '%s'", run.Selector)
		}
		if run.Elapsed != 42*time.Second {
			t.Errorf("expected elapsed 42s, got %v", run.Elapsed)
		}
		if !run.Started.Equal(time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)) {
			t.Errorf("expected started timestamp preserved, got %v", run.Started)
		}
	})

	t.Run("RunRecords returns records in insertion order", func(t *testing.T) {
		records, err := db.RunRecords(ctx, runID)
		if err != nil {
			t.Fatalf("failed to query records: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}

		if records[0].URL != "https://attack.mitre.org/techniques/T1548" {
			t.Errorf("unexpected first record URL: %s", records[0].URL)
		}
		if records[0].Bytes != 1024 {
			t.Errorf("expected 1024 bytes, got %d", records[0].Bytes)
		}
		if records[0].Failed() {
			t.Error("expected first record to be a success")
		}

		if records[1].Error != "navigation timeout" {
			t.Errorf("expected failure error preserved, got '%s'", records[1].Error)
		}
		if records[1].OutputFile != "" {
			t.Errorf("expected empty output file for failure, got '%s'", records[1].OutputFile)
		}
	})

	t.Run("unknown run ID yields no records", func(t *testing.T) {
		records, err := db.RunRecords(ctx, runID+100)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(records) != 0 {
			t.Errorf("expected no records, got %d", len(records))
		}
	})
}

// TestRecentRunsOrdering tests that runs come back newest first and that the
// limit is honored.
func TestRecentRunsOrdering(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	var ids []int64
	for range 3 {
		id, err := db.SaveReport(ctx, sampleReport())
		if err != nil {
			t.Fatalf("failed to save report: %v", err)
		}
		ids = append(ids, id)
	}

	t.Run("newest first", func(t *testing.T) {
		runs, err := db.RecentRuns(ctx, 10)
		if err != nil {
			t.Fatalf("failed to query runs: %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("expected 3 runs, got %d", len(runs))
		}
		if runs[0].ID != ids[2] || runs[2].ID != ids[0] {
			t.Errorf("expected newest-first order, got IDs %d, %d, %d",
				runs[0].ID, runs[1].ID, runs[2].ID)
		}
	})

	t.Run("limit is honored", func(t *testing.T) {
		runs, err := db.RecentRuns(ctx, 2)
		if err != nil {
			t.Fatalf("failed to query runs: %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("expected 2 runs, got %d", len(runs))
		}
	})
}
