// Package batch groups serialized messages into size-thresholded,
// timestamped batches for transmission, and splits received batches back
// into per-message cursors.
//
// On the wire a batch is an 8-byte little-endian f64 timestamp followed by
// the concatenated message payloads, with no per-message delimiter:
//
//	[8 bytes: f64 timestamp][message1][message2]...[messageN]
//
// The sender feeds messages to a Batcher and drains it once per send tick
// with GetBatch; the receiver feeds whole batches to an Unbatcher and pulls
// message cursors with GetNextMessage. Backing buffers come from a Pool and
// ownership transfers on every handoff, so no allocation happens per
// message in steady state.
//
// Both types are single-threaded per instance: one Batcher and one
// Unbatcher per connection, with no internal locking. Instances for
// different connections are independent.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package batch
