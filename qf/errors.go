package qf

import "errors"

var (
	// Configuration errors (spec.md §7), surfaced at construction time.

	// ErrDuplicatePriority is returned when two registered active objects
	// share a priority.
	ErrDuplicatePriority = errors.New("qf: duplicate priority")
	// ErrInvalidPriority is returned for a priority of 0 or above 63.
	ErrInvalidPriority = errors.New("qf: invalid priority")
	// ErrInvalidThreshold is returned for a preemption threshold below the
	// active object's own priority, or above 63.
	ErrInvalidThreshold = errors.New("qf: invalid preemption threshold")
	// ErrDuplicateThreadID is returned when two registered QXK threads
	// share an id.
	ErrDuplicateThreadID = errors.New("qf: duplicate thread id")

	// Runtime kernel errors (spec.md §7), returned to the caller.

	// ErrNotFound is returned by Post/Publish when the target active
	// object id is not registered.
	ErrNotFound = errors.New("qf: active object not found")
	// ErrQueueFull is returned by Post/PostLIFO when an active object's
	// bounded FIFO is saturated.
	ErrQueueFull = errors.New("qf: queue full")
	// ErrInvalidOperation covers operations rejected by their invariants,
	// e.g. a mutex unlock attempted by a non-owner.
	ErrInvalidOperation = errors.New("qf: invalid operation")
)
