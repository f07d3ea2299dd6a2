package hsm

import "github.com/nexusqp/qpkernel/event"

// Event is the event type dispatched to state handlers.
type Event = *event.Event

// kind enumerates the outcomes a Handler may return.
type kind uint8

const (
	kindHandled kind = iota
	kindUnhandled
	kindSuper
	kindTransition
	kindInitial
)

// Handler is a state handler function value: given the owning instance and
// an event, it returns an Outcome. Handler is generic over the owning type
// T so application code never needs to downcast a generic context back to
// its concrete state machine.
type Handler[T any] func(self T, e Event) Outcome[T]

// Outcome is the four-valued (five during initial dispatch) result of a
// Handler invocation.
type Outcome[T any] struct {
	kind   kind
	target Handler[T]
}

// Handled indicates the event was consumed; dispatch stops here.
func Handled[T any]() Outcome[T] {
	return Outcome[T]{kind: kindHandled}
}

// Unhandled indicates the event was not handled by this state and the
// caller should not escalate further (used at the top of the hierarchy, or
// by a state that explicitly declines to propagate).
func Unhandled[T any]() Outcome[T] {
	return Outcome[T]{kind: kindUnhandled}
}

// Super delegates to parent in the state hierarchy. A handler must return
// Super in response to SignalEmpty for every state except the top.
func Super[T any](parent Handler[T]) Outcome[T] {
	return Outcome[T]{kind: kindSuper, target: parent}
}

// Transition requests a change of state to target.
func Transition[T any](target Handler[T]) Outcome[T] {
	return Outcome[T]{kind: kindTransition, target: target}
}

// Initial is valid only in response to SignalInit during the initial
// transition / initial descent step; it requests the machine's current
// state become target, which is then entered and itself probed for a
// further initial transition.
func Initial[T any](target Handler[T]) Outcome[T] {
	return Outcome[T]{kind: kindInitial, target: target}
}
