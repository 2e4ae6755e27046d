// Package dump produces composition dumps of a MASH device.
//
// A dump covers a whole node: one typed field tree per endpoint. It is
// written as two artifacts:
//   - <base>.json: the annotated JSON document, one top-level key per
//     endpoint, each value encoded by package tagjson. This is the
//     authoritative, diffable form.
//   - <base>.txt: an untagged pretty-print for quick reading. It carries no
//     type information and is not meant to be parsed back.
//
// # Sources
//
// A Node is filled either live, by a Collector reading every feature listed
// in a Layout through a SessionReader, or offline from a CBOR snapshot file
// written by SaveSnapshot.
//
// # Failure Policy
//
// A feature whose read fails is recorded as a decode failure in the tree and
// the dump continues. If no read succeeds at all, or the encoder reports a
// structural error, no dump is written.
package dump
