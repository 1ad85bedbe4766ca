// Package doc implements the document model shared by the diff and
// apply engines: an immutable tagged-union Value type for parsed
// structured data, JSON-Pointer addressing into it, and order- and
// format-preserving codecs for JSON and YAML.
//
// Values are never mutated after construction. Every structural
// transformation (see Object.With, Object.Without and the apply
// engine) builds a new spine and shares unchanged subtrees, so a
// Value can be held across an edit cycle without aliasing hazards.
//
// Two encodings exist with different contracts:
//
//   - EncodeJSON / EncodeYAML preserve member order and number
//     literals; they are the round-trip serialization.
//   - MarshalCanonical sorts keys and normalizes strings; it exists
//     only to feed Hash for content-identity checks and must never
//     be used to persist a document.
package doc
