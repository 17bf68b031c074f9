package scanner

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/attackharvest/attackharvest/internal/model"
)

// Scanner collects the deduplicated canonical URL set of one category from
// a tree of STIX bundle files.
type Scanner struct {
	category Category
	logger   *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets a custom logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// New creates a Scanner for the given category.
func New(category Category, opts ...Option) *Scanner {
	s := &Scanner{category: category}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Scan walks root recursively, parses every .json file, and returns the
// category's canonical URLs: deduplicated, trailing slashes stripped, sorted
// by trailing path segment.
//
// Per-file failures (unreadable, unparsable, wrong shape) are skipped
// silently; only an error on the root itself is returned.
func (s *Scanner) Scan(root string) ([]string, error) {
	set := make(map[string]struct{})

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped; a missing or
			// unreadable root is an operator error and surfaces.
			if path == root {
				return err
			}
			s.logger.Debug("skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		s.scanFile(path, set)
		return nil
	})
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(set))
	for u := range set {
		urls = append(urls, strings.TrimRight(u, "/"))
	}
	// Stripping slashes can merge entries that differed only by one.
	urls = dedupe(urls)
	sortByIdentifier(urls)
	return urls, nil
}

// scanFile parses one bundle file and adds its URLs to the set. Every
// failure mode is an ignorable skip: the scan's contract is that one broken
// file never aborts the run.
func (s *Scanner) scanFile(path string, set map[string]struct{}) {
	data, err := os.ReadFile(path) //nolint:gosec // Paths come from walking the user-specified root
	if err != nil {
		s.logger.Debug("skipping unreadable file", "path", path, "error", err)
		return
	}

	var bundle model.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		s.logger.Debug("skipping unparsable file", "path", path, "error", err)
		return
	}

	for _, obj := range bundle.DecodeObjects() {
		for _, u := range s.category.Extract(obj) {
			set[u] = struct{}{}
		}
	}
}

// dedupe removes duplicates from a slice, preserving first occurrence order.
func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := urls[:0]
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// sortByIdentifier orders URLs by their trailing path segment (the entity's
// short identifier, e.g. "T1548" or "M1028"), tie-breaking on the full URL
// so the order is total and runs are byte-identical.
func sortByIdentifier(urls []string) {
	sort.Slice(urls, func(i, j int) bool {
		ki, kj := trailingSegment(urls[i]), trailingSegment(urls[j])
		if ki != kj {
			return ki < kj
		}
		return urls[i] < urls[j]
	})
}

// trailingSegment returns the final path segment of a trailing-slash-stripped
// URL.
func trailingSegment(url string) string {
	trimmed := strings.TrimRight(url, "/")
	if idx := strings.LastIndexByte(trimmed, '/'); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}
