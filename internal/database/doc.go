// Package database provides SQLite-based storage for harvest history.
//
// This package implements the HarvestDB, which stores:
//   - Harvest runs with their configuration and aggregate outcome
//   - Per-URL harvest records (output file, size, duration, error)
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
//  1. No external dependencies - the database is a single file
//  2. CGO-free implementation allows easy cross-compilation
//  3. Sufficient performance for our use case
//  4. WAL mode provides good concurrent read performance
//
// The history is write-only from the pipeline's point of view: nothing in
// the scan or harvest path reads it back, so there is no incremental or
// cached re-scan behavior built on top of it. It exists for after-the-fact
// auditing of what was fetched and when.
package database
