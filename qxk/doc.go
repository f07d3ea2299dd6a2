// Package qxk implements the dual-mode scheduler (spec.md §4.G): active
// objects and extended threads share one scheduler, with the rule "any
// ready active object runs before any ready thread; within a category,
// highest priority first."
//
// Active objects are the same qf.ActiveObject/qf.Kernel machinery qv and qk
// drive; qxk.Scheduler simply checks the kernel's ready set before falling
// back to its own thread ready queue. Extended threads are polled
// cooperatively: Scheduler invokes a Thread's handler once per dispatch
// cycle and the handler's returned Action (Continue/Yield/Blocked/
// Terminated) drives the thread's ready-queue membership.
//
// Grounded on original_source/crates/qxk/src/thread.rs (ExtendedThread,
// ThreadState, poll) and scheduler.rs (QxkScheduler.plan_next's two-category
// priority policy). The blocking primitives in primitives.go are grounded on
// original_source/crates/qxk/src/primitives.rs (Semaphore, MutexPrim,
// MessageQueue, CondVar), adapted so a blocking wait returns the Blocked
// action for the thread handler to return instead of spin-waiting, matching
// spec.md §4.G's "wait marks the thread Blocked after registering it as a
// waiter" contract.
package qxk
