package model

import "encoding/json"

// SourceMITREAttack is the provenance tag carried by external references
// that point at the MITRE ATT&CK knowledge base. Only references with this
// source name are consulted by the scanners.
const SourceMITREAttack = "mitre-attack"

// TypeAttackPattern is the STIX object type for ATT&CK techniques and
// sub-techniques.
const TypeAttackPattern = "attack-pattern"

// Bundle represents a STIX bundle document. Only the top-level objects
// array is consulted; every other field is ignored.
//
// Design decision: We decode into json.RawMessage per object rather than
// straight into []Object so that a single malformed element can be skipped
// without discarding the rest of the bundle. STIX bundles in the wild mix
// object shapes freely, and the scanner's contract is to skip anything that
// does not look like a structured record.
type Bundle struct {
	// Objects is the raw top-level objects array. Elements are decoded
	// individually via DecodeObjects.
	Objects []json.RawMessage `json:"objects"`
}

// Object is a single STIX object reduced to the fields the scanners consume.
//
// ExternalReferences stays raw for the same reason Bundle.Objects does:
// a list mixing valid reference records with junk must yield the valid ones,
// not fail the object.
type Object struct {
	// Type is the STIX object type, e.g. "attack-pattern" for techniques.
	Type string `json:"type"`

	// ExternalReferences is the raw external_references array.
	// Decode entries individually via References.
	ExternalReferences []json.RawMessage `json:"external_references"`
}

// References decodes the object's external references, silently dropping
// entries that are not structured records.
func (o *Object) References() []ExternalReference {
	refs := make([]ExternalReference, 0, len(o.ExternalReferences))
	for _, raw := range o.ExternalReferences {
		var ref ExternalReference
		if err := json.Unmarshal(raw, &ref); err != nil {
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}

// ExternalReference links a STIX object to an entry in an external knowledge
// base. A reference is relevant to this tool only when SourceName equals
// SourceMITREAttack.
type ExternalReference struct {
	// SourceName is the provenance tag, e.g. "mitre-attack".
	SourceName string `json:"source_name"`

	// URL is the optional canonical address of the referenced entry.
	// We keep a pointer to distinguish "absent" from "empty string":
	// the technique scanner accepts a reference only when the url field
	// is present at all.
	URL *string `json:"url"`

	// ExternalID is the optional short identifier, e.g. "T1548" or "M1028".
	// Kept raw because datasets occasionally carry non-string values here;
	// those must be ignored without discarding the rest of the record.
	ExternalID json.RawMessage `json:"external_id"`
}

// ExternalIDString returns the external identifier when it is present and a
// nonempty string.
func (r *ExternalReference) ExternalIDString() (string, bool) {
	if len(r.ExternalID) == 0 {
		return "", false
	}
	var id string
	if err := json.Unmarshal(r.ExternalID, &id); err != nil {
		return "", false
	}
	return id, id != ""
}

// DecodeObjects decodes the bundle's raw objects, silently dropping elements
// that are not structured records. The returned slice preserves document
// order.
func (b *Bundle) DecodeObjects() []Object {
	objects := make([]Object, 0, len(b.Objects))
	for _, raw := range b.Objects {
		var obj Object
		if err := json.Unmarshal(raw, &obj); err != nil {
			continue
		}
		objects = append(objects, obj)
	}
	return objects
}
