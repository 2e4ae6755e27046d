// Package tlv defines the typed value tree produced by reading attributes
// from a MASH device.
//
// A decoded attribute is one of a closed set of variants:
//
//	Uint, Int, Bool, Float32, Float64  scalars
//	Bytes, String                      payloads
//	Null                               explicit null
//	Array                              ordered sequence of values
//	Struct                             ordered fields keyed by FieldID
//	DecodeFailure                      a value the decoder could not produce
//
// Value is a sealed interface: only the types in this package implement it.
// Consumers dispatch with a type switch and must treat an unknown dynamic type
// as a programming error.
//
// # Sources
//
// Trees come from two places:
//   - FromAny adapts the Go-native values a session Read returns
//     (map[uint16]any, []any, integers, floats, ...).
//   - DecodeCBOR decodes a CBOR item directly, keeping the distinctions the
//     generic CBOR decoder loses (unsigned vs signed, float32 vs float64).
//
// # Decode Failures
//
// A DecodeFailure is data, not an error. It carries a diagnostic message in
// place of a value so that a single bad field never hides the rest of a tree.
package tlv
