// Package jsonenc renders stored metadata values as JSON text.
//
// The output is deterministic and positional: object members appear in the
// order the caller supplies them, not sorted. Two encoders are provided:
//
//   - EncodeProperties builds a flat object from (key, value, is-string)
//     entries, skipping entries whose value is empty.
//   - EncodeAttributes builds the trait array from four index-aligned lists.
//
// String values are escaped with HTML escaping disabled (<, > and & are
// written as-is). U+2028 and U+2029 are always escaped. Invalid UTF-8 bytes
// are replaced with U+FFFD, so a value holding them does not decode back to
// the stored bytes. Values marked as raw are written verbatim; the encoder
// does not check that they are valid JSON.
package jsonenc
