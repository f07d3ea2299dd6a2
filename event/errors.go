package event

import "errors"

var (
	// ErrRefCountOverflow is returned by Share when an event's reference
	// count has already reached the 8-bit ceiling; this indicates a
	// programming error (a leaked or unbounded fan-out of holders).
	ErrRefCountOverflow = errors.New("event: reference count overflow")

	// ErrOutOfEvents is returned by a Pool's Get when no free event slot is
	// available.
	ErrOutOfEvents = errors.New("event: pool exhausted")
)
