package qf

import (
	"sync"

	"github.com/nexusqp/qpkernel/event"
	"github.com/nexusqp/qpkernel/hsm"
)

// Dispatcher is the non-generic surface Kernel uses to manage an
// ActiveObject[T] without committing to a concrete owner type, since a
// single kernel hosts active objects with unrelated HSM owner types.
type Dispatcher interface {
	ID() uint8
	Priority() uint8
	Threshold() uint8
	HasEvents() bool

	// Post enqueues e at the tail. wasEmpty reports whether the queue was
	// empty immediately before this push (the caller must then set the
	// ready bit).
	Post(e *event.Event) (wasEmpty bool, err error)

	// PostLIFO enqueues e at the head, for priority-boosted reminders only.
	PostLIFO(e *event.Event) (wasEmpty bool, err error)

	// DispatchOne dequeues and dispatches a single event. dispatched is
	// false if the queue was empty. becameEmpty reports whether the queue
	// is now empty (the caller must then clear the ready bit).
	DispatchOne() (dispatched bool, becameEmpty bool, err error)

	// Start installs the trace hook and runs the HSM's initial transition.
	Start(tracer hsm.Tracer) error
}

// ActiveObject wraps an hsm.Machine[T] with a bounded FIFO, a priority, and
// a preemption threshold, per spec.md §4.C.
type ActiveObject[T any] struct {
	id        uint8
	priority  uint8
	threshold uint8

	mu      sync.Mutex
	queue   *boundedQueue
	machine *hsm.Machine[T]
}

// NewActiveObject constructs an ActiveObject for owner, rooted at the HSM's
// top-level handler. priority must be in 1..=63; threshold must be >=
// priority and <= 63 (a zero threshold defaults to priority, i.e. no
// threshold elevation beyond the AO's own priority).
func NewActiveObject[T any](id, priority, threshold uint8, capacity int, owner T, top hsm.Handler[T]) (*ActiveObject[T], error) {
	if priority == 0 || priority > 63 {
		return nil, ErrInvalidPriority
	}
	if threshold == 0 {
		threshold = priority
	}
	if threshold < priority || threshold > 63 {
		return nil, ErrInvalidThreshold
	}
	return &ActiveObject[T]{
		id:        id,
		priority:  priority,
		threshold: threshold,
		queue:     newBoundedQueue(capacity),
		machine:   hsm.NewMachine[T](owner, top, uint64(id), nil),
	}, nil
}

func (a *ActiveObject[T]) ID() uint8        { return a.id }
func (a *ActiveObject[T]) Priority() uint8  { return a.priority }
func (a *ActiveObject[T]) Threshold() uint8 { return a.threshold }

func (a *ActiveObject[T]) HasEvents() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.queue.len() > 0
}

func (a *ActiveObject[T]) Post(e *event.Event) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	wasEmpty := a.queue.len() == 0
	if !a.queue.pushBack(e) {
		return wasEmpty, ErrQueueFull
	}
	return wasEmpty, nil
}

func (a *ActiveObject[T]) PostLIFO(e *event.Event) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	wasEmpty := a.queue.len() == 0
	if !a.queue.pushFront(e) {
		return wasEmpty, ErrQueueFull
	}
	return wasEmpty, nil
}

func (a *ActiveObject[T]) DispatchOne() (dispatched bool, becameEmpty bool, err error) {
	a.mu.Lock()
	e, ok := a.queue.popFront()
	empty := a.queue.len() == 0
	a.mu.Unlock()
	if !ok {
		return false, true, nil
	}
	defer e.Release()
	if err := a.machine.Dispatch(e); err != nil {
		return true, empty, err
	}
	return true, empty, nil
}

// Start installs tracer on the underlying HSM and runs its initial
// transition. tracer may be nil to disable tracing.
func (a *ActiveObject[T]) Start(tracer hsm.Tracer) error {
	a.machine.SetTracer(tracer)
	return a.machine.Start()
}

var _ Dispatcher = (*ActiveObject[struct{}])(nil)
