package qxk

import "fmt"

// ID identifies an extended thread, disjoint from qf active-object ids.
type ID uint8

// Priority places a thread within the disjoint lower priority band spec.md
// §4.G reserves for extended threads (below every active-object priority).
type Priority uint8

// Action is what a Thread's Handler returns after one poll, driving its
// ready-queue membership. Grounded on thread.rs's ThreadAction.
type Action int

const (
	// Continue keeps the thread Ready; it will be polled again next cycle.
	Continue Action = iota
	// Yield keeps the thread Ready; the scheduler re-queues it behind its
	// same-priority peers, exactly as it does for Continue.
	Yield
	// Blocked removes the thread from the ready queue; a blocking
	// primitive's wait call returns this once it has registered the
	// thread as a waiter. Only a Signal/Unlock/Send/Notify on that
	// primitive moves the thread back to Ready.
	Blocked
	// Terminated removes the thread permanently; it is never polled again.
	Terminated
)

func (a Action) String() string {
	switch a {
	case Continue:
		return "continue"
	case Yield:
		return "yield"
	case Blocked:
		return "blocked"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("qxk.Action(%d)", int(a))
	}
}

// State mirrors thread.rs's ThreadState.
type State int

const (
	StateReady State = iota
	StateRunning
	StateBlocked
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateBlocked:
		return "blocked"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("qxk.State(%d)", int(s))
	}
}

// Handler is polled once per dispatch cycle while its thread is Ready. It
// has no stack of its own (unlike the Rust original's per-thread stack
// allocation): a Go handler is expected to hold whatever local progress
// state it needs across polls in its own closure variables, and to return
// Blocked immediately after a blocking primitive registers it as a waiter.
type Handler func(t *Thread) Action

// Thread is an extended thread: cooperatively-polled, able to suspend by
// returning Blocked from its Handler. Grounded on thread.rs's
// ExtendedThread.
type Thread struct {
	ID       ID
	Priority Priority
	handler  Handler
	state    State
	iteration uint64
}

// Config is the parameters for NewThread, mirroring thread.rs's
// ThreadConfig (minus stack_size: Go goroutine stacks are not
// caller-sized).
type Config struct {
	ID       ID
	Priority Priority
	Handler  Handler
}

// NewThread builds a Thread in the Ready state.
func NewThread(cfg Config) *Thread {
	return &Thread{
		ID:       cfg.ID,
		Priority: cfg.Priority,
		handler:  cfg.Handler,
		state:    StateReady,
	}
}

// State returns the thread's current scheduling state.
func (t *Thread) State() State { return t.state }

// Iteration returns how many times the handler has been polled.
func (t *Thread) Iteration() uint64 { return t.iteration }

// poll invokes the handler once and applies the resulting state
// transition, mirroring thread.rs's poll(). Only Scheduler calls this.
func (t *Thread) poll() Action {
	if t.state == StateTerminated {
		return Terminated
	}
	t.state = StateRunning
	action := t.handler(t)
	t.iteration++
	switch action {
	case Continue, Yield:
		t.state = StateReady
	case Blocked:
		t.state = StateBlocked
	case Terminated:
		t.state = StateTerminated
	}
	return action
}

// wake moves a Blocked thread back to Ready; called by a blocking
// primitive's Signal/Unlock/Send/Notify when this thread was the waiter
// chosen to be woken. It is a no-op on a thread that is not Blocked
// (e.g. it already terminated).
func (t *Thread) wake() {
	if t.state == StateBlocked {
		t.state = StateReady
	}
}
