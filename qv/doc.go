// Package qv implements the cooperative "vanilla" scheduler: a single loop
// that repeatedly selects the highest-priority ready active object above
// the current scheduler-lock ceiling, dispatches exactly one event from it,
// and falls idle when nothing qualifies. It never preempts a dispatch in
// progress, since qf.Kernel.DispatchPriority always runs an active
// object's handler to completion before returning.
//
// Grounded on original_source/crates/qf/src/kernel.rs's
// dispatch_once/run_until_idle (the simplest of the three scheduling
// policies the original offers), composed here purely from qf.Kernel's
// exported primitives rather than reaching into its internals.
package qv
