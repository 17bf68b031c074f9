// Package model defines the core data structures used throughout attackharvest.
//
// This package contains the following main types:
//   - Bundle: A STIX bundle with its top-level objects array
//   - Object: A single STIX object carrying external references
//   - ExternalReference: A link from an object to an external knowledge base
//   - HarvestRecord / HarvestReport: Per-URL and per-run harvest outcomes
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (scanner, harvester, report, database) need
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
