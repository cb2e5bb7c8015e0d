// Package wire implements the binary wire format shared by the batching and
// replication layers: little-endian fixed-width primitives, nullable values,
// length-prefixed strings, byte blobs and sequences.
//
// Reading is strictly bounds-checked. Length fields arriving off the network
// are treated as hostile until proven otherwise: strings are capped, blob
// lengths are guarded against overflow, and sequence counts are validated
// against the bytes actually remaining before any storage is allocated.
//
// # Usage
//
// Encode with a Writer and decode with a Reader over the received buffer:
//
//	w := wire.NewWriter()
//	w.WriteFloat64(123.456)
//	w.WriteString("hello")
//
//	r := wire.NewReader(w.Bytes())
//	ts, err := r.ReadFloat64()
//	s, err := r.ReadString()
//
// Any decode error is terminal for the buffer: discard it, never resume.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package wire
