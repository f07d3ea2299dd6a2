// Package qf implements the active-object/kernel layer shared by the three
// schedulers: the bounded per-AO event queue, the 64-bit ready set, the
// priority-ceiling scheduler lock, the Kernel that posts and drains events,
// and the cooperative time-event wheel.
//
// # Architecture
//
// An ActiveObject wraps an hsm.Machine with a bounded FIFO (grounded on the
// teacher's chunked-queue design, but capacity-bounded so overflow is a
// caller-visible ErrQueueFull rather than unbounded growth) and a priority.
// Kernel owns a set of ActiveObjects, a ReadySet bitmap, and a
// SchedulerLock; the scheduler packages (qv, qk, qxk) drive Kernel's
// dispatch primitives in their own policy-specific loops.
//
// # Thread Safety
//
// Kernel serializes scheduler-state mutation (ready set, lock ceiling,
// previous priority) behind its own mutex. TimeEventWheel and each TimeEvent
// guard their own state with separate mutexes. Failures are reported as
// returned errors; nothing in this package panics or aborts the process.
//
// # Configuration
//
// Kernel construction uses functional options (KernelOption), following the
// closure-based pattern used throughout the corpus for optional
// configuration.
package qf
