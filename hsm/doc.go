// Package hsm implements the hierarchical state machine engine: state
// handlers return a four-valued (five during initial descent) Outcome, and
// Dispatch computes Least-Common-Ancestor transitions and initial-transition
// descent on behalf of the caller.
//
// # Architecture
//
// A state handler is a generic function value, Handler[T], parameterized on
// the owning struct T so application code recovers its concrete type without
// the downcasting the original C/Rust ports relied on (design note in the
// distilled specification: "a clean design ... has each handler return its
// parent explicitly on EMPTY"). The super-state relationship is therefore
// expressed purely by a handler's response to SignalEmpty: returning
// Super(parent) as opposed to Handled (the top of the hierarchy).
//
// # Thread Safety
//
// A Machine is not safe for concurrent Dispatch calls; the owning active
// object is responsible for run-to-completion serialization (see package
// qf), matching invariant 1 of the specification ("at most one AO dispatches
// at a time").
package hsm
