// Package posix provides the host collaborator the kernel expects but does
// not implement itself (spec.md §6: "The kernel consumes an externally
// provided: (a) periodic tick() caller, ... (c) a wake primitive"): a
// Waker that lets one goroutine block waiting for work and another signal
// it without a busy-poll, plus a TickSource that turns that primitive into
// a periodic caller of qf.TimeEventWheel.Tick.
//
// Grounded on eventloop's wake-fd family (wakeup_linux.go's eventfd,
// wakeup_darwin.go's self-pipe, fd_unix.go/fd_windows.go's per-platform
// read/write/close), generalized from "wake the poller" to "wake whoever
// is blocked waiting for the next active object or time-event tick" — the
// same primitive, applied to this kernel's domain instead of an I/O
// readiness loop.
package posix
