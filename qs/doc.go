// Package qs implements the QS binary trace protocol (spec.md §4.I/§6): an
// Emitter builds sequenced, checksummed, HDLC-framed records from the
// kernel's trace calls and hands complete frames to a pluggable
// TraceBackend. Record identifiers and payload layouts are bit-exact with
// the table in spec.md §6, so a stream produced here can be decoded by
// qs/host or any compatible host tool.
//
// Grounded on original_source/crates/qs/src/lib.rs (Tracer/record/
// build_frame), record.rs (UserRecordBuilder, format descriptors),
// records.rs (record id constants), and predefined.rs (dictionary and
// target-info payload builders).
package qs
