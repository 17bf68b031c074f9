package scanner

import (
	"strings"

	"github.com/attackharvest/attackharvest/internal/model"
)

// mitigationPathFragment marks explicit URLs that point at mitigation pages.
const mitigationPathFragment = "/mitigations/"

// mitigationIDPrefix is the first character of ATT&CK mitigation identifiers
// ("M1028", "M1040", ...). Compared against the upper-cased external_id.
const mitigationIDPrefix = "M"

// mitigationURLBase is the canonical address prefix mitigation URLs are
// synthesized under when a reference carries an identifier but no URL.
const mitigationURLBase = "https://attack.mitre.org/mitigations/"

// Category holds the matching and derivation rules for one class of
// referenced entity. The two instances are Techniques and Mitigations.
//
// Design decision: Categories are values with an extraction function rather
// than an interface with two implementations. The rules are small and fixed;
// a closed set of values keeps the scanner generic without interface
// ceremony.
type Category struct {
	// Name identifies the category in logs and operator output,
	// e.g. "technique".
	Name string

	// DefaultOutputFile is the conventional URL list file for this
	// category.
	DefaultOutputFile string

	// extract returns the canonical URLs a single STIX object contributes.
	extract func(obj model.Object) []string
}

// Extract returns the canonical URLs the object contributes to this category.
func (c Category) Extract(obj model.Object) []string {
	return c.extract(obj)
}

// Techniques is the category for ATT&CK techniques and sub-techniques.
// Only attack-pattern objects are inspected, and only references that carry
// an explicit url field contribute.
func Techniques(defaultOutputFile string) Category {
	return Category{
		Name:              "technique",
		DefaultOutputFile: defaultOutputFile,
		extract: func(obj model.Object) []string {
			if obj.Type != model.TypeAttackPattern {
				return nil
			}
			var urls []string
			for _, ref := range obj.References() {
				if ref.SourceName != model.SourceMITREAttack {
					continue
				}
				if ref.URL == nil {
					continue
				}
				urls = append(urls, *ref.URL)
			}
			return urls
		},
	}
}

// Mitigations is the category for ATT&CK mitigations. Every object's
// references are inspected regardless of object type, because mitigation
// references hang off relationships and course-of-action objects alike.
//
// An explicit url containing /mitigations/ wins; otherwise a reference whose
// external_id looks like a mitigation identifier synthesizes the canonical
// URL via MitigationURL.
func Mitigations(defaultOutputFile string) Category {
	return Category{
		Name:              "mitigation",
		DefaultOutputFile: defaultOutputFile,
		extract: func(obj model.Object) []string {
			var urls []string
			for _, ref := range obj.References() {
				if ref.SourceName != model.SourceMITREAttack {
					continue
				}

				if ref.URL != nil && *ref.URL != "" && strings.Contains(*ref.URL, mitigationPathFragment) {
					urls = append(urls, strings.TrimRight(*ref.URL, "/"))
					continue
				}

				if id, ok := ref.ExternalIDString(); ok && strings.HasPrefix(strings.ToUpper(id), mitigationIDPrefix) {
					urls = append(urls, MitigationURL(id))
				}
			}
			return urls
		},
	}
}

// MitigationURL synthesizes the canonical mitigation URL for an external
// identifier. The identifier is upper-cased, matching how ATT&CK publishes
// mitigation pages.
//
// This is the single place the URL shape is coupled to the knowledge base's
// naming scheme; swapping the convention means changing only this function.
func MitigationURL(externalID string) string {
	return mitigationURLBase + strings.ToUpper(externalID)
}
