// Package host implements the off-target half of the QS trace protocol
// (spec.md §4.J): a Deframer reassembles HDLC-framed byte streams into
// checksummed records, and an Interpreter resolves those records against
// the four dictionaries a target streams ahead of use (object, function,
// signal, user-record-id) to render human-readable lines.
//
// Deframer and Interpreter are independent: a caller that only needs raw
// {seq, type, payload} tuples can use Deframer alone. Grounded on
// original_source's tools/qspy (per _INDEX.md) and spec.md §4.J/§6.
package host
