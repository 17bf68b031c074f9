// Package scanner extracts canonical MITRE ATT&CK reference URLs from trees
// of STIX bundle JSON files.
//
// # Components
//
//   - Category: The matching and derivation rules for one class of entity
//     (techniques or mitigations)
//   - Scanner: Walks a directory tree, parses every .json file, and collects
//     the deduplicated URL set for its category
//   - WriteList: Persists a sorted URL list, one per line
//
// # Error handling
//
// Unreadable or unparsable files, non-object documents, and malformed
// objects or reference records are silently skipped; a broken file anywhere
// in the tree never prevents URLs from valid sibling files from being
// collected. Only failures on the root directory itself or on the output
// file surface to the caller.
//
// # Determinism
//
// The output is sorted by the trailing path segment of each URL (the entity's
// short identifier), with the full URL as tie-breaker, so re-running over
// unchanged input produces byte-identical output.
package scanner
