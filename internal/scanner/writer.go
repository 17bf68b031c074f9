package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteList writes URLs to path, one per line, LF terminated. The slice is
// expected to already be sorted and deduplicated (as returned by Scan); the
// trailing-slash strip is applied again per line so the invariant holds even
// for hand-built slices.
//
// The write is atomic: the list is staged in a temporary file and renamed
// into place, so a failed write never leaves a partial list behind.
func WriteList(path string, urls []string) error {
	var sb strings.Builder
	for _, u := range urls {
		sb.WriteString(strings.TrimRight(u, "/"))
		sb.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".urls-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(sb.String()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write URL list: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close URL list: %w", err)
	}

	// Lists are shareable artifacts; CreateTemp's 0600 would stick after
	// the rename.
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set URL list permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move URL list into place: %w", err)
	}
	return nil
}
