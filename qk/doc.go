// Package qk implements the preemptive run-to-completion scheduler
// (spec.md §4.F). It dispatches the highest-priority ready active object
// above the current scheduler-lock ceiling, raising the ceiling to that
// active object's preemption threshold for the duration of its one-event
// dispatch and restoring it afterward.
//
// Because Go handlers run synchronously to completion (qf.ActiveObject has
// no suspension point), true interrupt-style preemption mid-handler is not
// applicable; "nested activation" (spec.md §4.F: "a post from inside a
// handler to a higher-priority AO must cause that AO to run before the
// outer dispatch returns") falls naturally out of re-running Step in a
// loop: once the preempting handler's single dispatch completes and the
// ceiling is restored, the next Step call immediately re-selects and finds
// the higher-priority active object the handler just posted to, before any
// lower-priority work gets a turn.
//
// Grounded on original_source/crates/qf/src/kernel.rs's SchedulerState
// (sched_ceiling/prev_prio bookkeeping), extended with the per-active-object
// preemption threshold from spec.md §4.F.
package qk
