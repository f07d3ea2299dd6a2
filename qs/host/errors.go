package host

import "errors"

var (
	// ErrFrameTooShort is returned when a FLAG-delimited candidate has
	// fewer than 3 bytes (spec.md §4.J step 5: "length >= 3" — the minimum
	// body is seq + type + checksum with no payload).
	ErrFrameTooShort = errors.New("qs/host: frame too short")

	// ErrInvalidChecksum is returned when the recomputed checksum does not
	// match the trailing checksum byte of a candidate frame.
	ErrInvalidChecksum = errors.New("qs/host: invalid checksum")
)
