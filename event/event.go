package event

import (
	"math"
	"sync/atomic"
)

// maxRefCount mirrors the 8-bit reference count called out in the
// specification: a programming error beyond this is surfaced rather than
// silently wrapping.
const maxRefCount = math.MaxUint8

// Pool supplies and reclaims events of a particular shape. A Pool
// implementation is expected to be safe for concurrent use, since events it
// issues may be released from any active object's dispatch goroutine.
type Pool interface {
	// Acquire returns a fresh event bound to this pool, or ErrOutOfEvents if
	// the pool has no free slots.
	Acquire(signal Signal, payload any) (*Event, error)

	// reclaim returns e to the pool once its last holder releases it.
	// Unexported: callers release events via Event.Release, never directly.
	reclaim(e *Event)
}

// Event is an immutable, reference-counted envelope carrying a Signal and an
// arbitrary payload. Payload may be nil (a unit event), a fixed-shape
// record, or any type-erased shared blob; it is never mutated after
// construction, so concurrent holders always observe identical bytes.
//
// Events pass by shared ownership: Share hands out an additional holder,
// Release relinquishes one. The last Release returns the event to its Pool
// (if PoolBound) or simply drops it.
type Event struct {
	signal  Signal
	payload any
	pool    Pool
	refs    atomic.Int32 // betteralign:ignore
}

// New produces a ready-to-post envelope with reference count 1 and no pool
// binding; its last Release simply drops it.
func New(signal Signal, payload any) *Event {
	e := &Event{signal: signal, payload: payload}
	e.refs.Store(1)
	return e
}

// newPooled is used by Pool implementations to mint a pool-bound event.
func newPooled(signal Signal, payload any, pool Pool) *Event {
	e := &Event{signal: signal, payload: payload, pool: pool}
	e.refs.Store(1)
	return e
}

// NewPooled constructs a pool-bound event on behalf of a Pool implementation.
// Application code normally obtains pool-bound events via Pool.Acquire
// instead of calling this directly.
func NewPooled(signal Signal, payload any, pool Pool) *Event {
	return newPooled(signal, payload, pool)
}

// Signal returns the event's signal.
func (e *Event) Signal() Signal {
	return e.signal
}

// Payload returns the event's payload, which may be nil.
func (e *Event) Payload() any {
	return e.payload
}

// PoolBound reports whether e was allocated from a Pool and will be
// returned to it on last release, rather than dropped.
func (e *Event) PoolBound() bool {
	return e.pool != nil
}

// Share increments the reference count, yielding an additional holder. The
// returned pointer aliases e; callers should treat it as a fresh handle that
// must itself be released exactly once.
func (e *Event) Share() (*Event, error) {
	for {
		cur := e.refs.Load()
		if cur >= maxRefCount {
			return nil, ErrRefCountOverflow
		}
		if e.refs.CompareAndSwap(cur, cur+1) {
			return e, nil
		}
	}
}

// Release decrements the reference count. On the last release the event is
// returned to its Pool if PoolBound, otherwise it is dropped (made eligible
// for garbage collection).
func (e *Event) Release() {
	if e.refs.Add(-1) == 0 {
		if e.pool != nil {
			e.pool.reclaim(e)
		}
	}
}
