package qs

import (
	"errors"
	"fmt"
)

// ErrPayloadTooLarge is returned by Emitter.Record when payload exceeds the
// emitter's configured MaxRecordLen.
var ErrPayloadTooLarge = errors.New("qs: payload too large")

// PayloadTooLargeError carries the offending length alongside
// ErrPayloadTooLarge so callers can report it; errors.Is(err,
// ErrPayloadTooLarge) still matches.
type PayloadTooLargeError struct {
	Len int
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("qs: payload too large: %d bytes", e.Len)
}

func (e *PayloadTooLargeError) Unwrap() error { return ErrPayloadTooLarge }

// TransportError wraps an error returned by a TraceBackend's WriteFrame.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("qs: backend error: %v", e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }
