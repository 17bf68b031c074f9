package harvester

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/attackharvest/attackharvest/internal/config"
)

// TestResolveInputFiles tests input file resolution.
// The default-file branches stat the current directory, so those subtests
// change into a temp dir and cannot run in parallel with each other.
func TestResolveInputFiles(t *testing.T) {
	t.Run("explicit files pass through untouched", func(t *testing.T) {
		t.Parallel()

		inputs := []string{"custom.txt", "missing.txt"}
		files, err := ResolveInputFiles(inputs)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !reflect.DeepEqual(files, inputs) {
			t.Errorf("expected %v, got %v", inputs, files)
		}
	})

	t.Run("defaults to existing conventional files", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		if err := os.WriteFile(config.DefaultTechniqueFile, []byte("https://a.example\n"), 0600); err != nil {
			t.Fatalf("failed to write default file: %v", err)
		}

		files, err := ResolveInputFiles(nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !reflect.DeepEqual(files, []string{config.DefaultTechniqueFile}) {
			t.Errorf("expected only the technique file, got %v", files)
		}
	})

	t.Run("both conventional files are used when present", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		for _, name := range []string{config.DefaultTechniqueFile, config.DefaultMitigationFile} {
			if err := os.WriteFile(name, []byte("https://a.example\n"), 0600); err != nil {
				t.Fatalf("failed to write %s: %v", name, err)
			}
		}

		files, err := ResolveInputFiles(nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := []string{config.DefaultTechniqueFile, config.DefaultMitigationFile}
		if !reflect.DeepEqual(files, want) {
			t.Errorf("expected %v, got %v", want, files)
		}
	})

	t.Run("no inputs and no defaults returns ErrNoInputFiles", func(t *testing.T) {
		t.Chdir(t.TempDir())

		if _, err := ResolveInputFiles(nil); !errors.Is(err, config.ErrNoInputFiles) {
			t.Errorf("expected ErrNoInputFiles, got %v", err)
		}
	})
}

// TestReadURLs tests URL list reading.
func TestReadURLs(t *testing.T) {
	t.Parallel()

	t.Run("reads nonblank trimmed lines in order", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "urls.txt")
		content := "https://attack.mitre.org/techniques/T1003\n" +
			"\n" +
			"  https://attack.mitre.org/techniques/T1548  \n" +
			"\t\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write input file: %v", err)
		}

		urls := ReadURLs([]string{path}, nil)
		want := []string{
			"https://attack.mitre.org/techniques/T1003",
			"https://attack.mitre.org/techniques/T1548",
		}
		if !reflect.DeepEqual(urls, want) {
			t.Errorf("expected %v, got %v", want, urls)
		}
	})

	t.Run("concatenates multiple files in file order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		first := filepath.Join(dir, "first.txt")
		second := filepath.Join(dir, "second.txt")
		if err := os.WriteFile(first, []byte("https://a.example\n"), 0600); err != nil {
			t.Fatalf("failed to write first file: %v", err)
		}
		if err := os.WriteFile(second, []byte("https://b.example\n"), 0600); err != nil {
			t.Fatalf("failed to write second file: %v", err)
		}

		urls := ReadURLs([]string{first, second}, nil)
		want := []string{"https://a.example", "https://b.example"}
		if !reflect.DeepEqual(urls, want) {
			t.Errorf("expected %v, got %v", want, urls)
		}
	})

	t.Run("missing files are skipped not fatal", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		present := filepath.Join(dir, "present.txt")
		if err := os.WriteFile(present, []byte("https://a.example\n"), 0600); err != nil {
			t.Fatalf("failed to write input file: %v", err)
		}

		urls := ReadURLs([]string{filepath.Join(dir, "absent.txt"), present}, nil)
		if !reflect.DeepEqual(urls, []string{"https://a.example"}) {
			t.Errorf("expected URLs from the present file only, got %v", urls)
		}
	})

	t.Run("duplicate lines are preserved", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "urls.txt")
		if err := os.WriteFile(path, []byte("https://a.example\nhttps://a.example\n"), 0600); err != nil {
			t.Fatalf("failed to write input file: %v", err)
		}

		urls := ReadURLs([]string{path}, nil)
		if len(urls) != 2 {
			t.Errorf("expected duplicates preserved (2 lines), got %v", urls)
		}
	})
}
