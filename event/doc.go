// Package event defines the signal and event envelope shared by every
// active object in the kernel.
//
// # Architecture
//
// A Signal is a 16-bit identifier; values below Signal(4) are reserved for
// framework use (SignalInit, SignalEntry, SignalExit, SignalEmpty). An Event
// pairs a Signal with an optional payload and is passed by shared ownership:
// Share increments a reference count, Release decrements it, and the last
// holder returns the event to its Pool (if any) or lets it be collected.
//
// # Thread Safety
//
// Event reference counts are manipulated with atomic operations so an event
// may be shared across active objects dispatched from different goroutines.
// Payload bytes are never mutated after New, so concurrent holders always
// observe identical data.
package event
