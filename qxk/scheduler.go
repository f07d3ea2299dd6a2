package qxk

import (
	"context"
	"sort"
	"sync"

	"github.com/nexusqp/qpkernel/qf"
)

// Scheduler drives a qf.Kernel's active objects exactly as qk.Scheduler
// does, and additionally polls a cooperative ready queue of extended
// threads whenever no active object is ready above the kernel's ceiling.
// Grounded on original_source/crates/qxk/src/scheduler.rs's
// QxkScheduler.plan_next: "any ready AO runs before any ready thread;
// within a category, highest priority first."
type Scheduler struct {
	kernel *qf.Kernel

	mu    sync.Mutex
	ready []*Thread
}

// New wraps kernel with the dual-mode scheduling policy. kernel.Start must
// already have been called. The returned Scheduler starts with no
// extended threads registered; add them with AddThread.
func New(kernel *qf.Kernel) *Scheduler {
	return &Scheduler{kernel: kernel}
}

// AddThread registers t with the scheduler. If t is Ready (the state every
// Thread starts in), it enters the thread ready queue immediately.
func (s *Scheduler) AddThread(t *Thread) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.State() == StateReady {
		s.insertReady(t)
	}
}

// insertReady inserts t into the ready queue ordered by descending
// priority, placing it after any existing same-priority threads (a plain
// round-robin tie-break, matching the stable sort_by in scheduler.rs's
// ThreadReadyQueue.insert). Callers must hold s.mu.
func (s *Scheduler) insertReady(t *Thread) {
	for i, x := range s.ready {
		if x == t {
			s.ready = append(s.ready[:i], s.ready[i+1:]...)
			break
		}
	}
	idx := sort.Search(len(s.ready), func(i int) bool {
		return s.ready[i].Priority < t.Priority
	})
	s.ready = append(s.ready, nil)
	copy(s.ready[idx+1:], s.ready[idx:])
	s.ready[idx] = t
}

// popReadiestThread removes and returns the highest-priority ready
// thread, or nil if none are ready.
func (s *Scheduler) popReadiestThread() *Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ready) == 0 {
		return nil
	}
	t := s.ready[0]
	s.ready = s.ready[1:]
	return t
}

// Step runs one scheduling decision: dispatch the highest-priority ready
// active object above the kernel's ceiling if one exists, else poll the
// highest-priority ready thread, else note the kernel idle and return
// false. Active-object dispatch uses the same lock-to-threshold bracket as
// qk.Scheduler.Step, since AOs preempt threads with the identical
// run-to-completion discipline QK uses among AOs.
func (s *Scheduler) Step() (bool, error) {
	ceiling := s.kernel.CurrentCeiling()
	if ao, ok := s.kernel.SelectReady(ceiling); ok {
		token := s.kernel.LockScheduler(ao.Threshold())
		s.kernel.NoteScheduled(ao.Priority())
		err := s.kernel.DispatchPriority(ao.Priority())
		s.kernel.UnlockScheduler(token)
		if err != nil {
			return true, err
		}
		return true, nil
	}

	t := s.popReadiestThread()
	if t == nil {
		s.kernel.NoteIdle()
		return false, nil
	}

	switch t.poll() {
	case Continue, Yield:
		s.mu.Lock()
		s.insertReady(t)
		s.mu.Unlock()
	case Blocked, Terminated:
		// Already removed from the ready queue by popReadiestThread; a
		// Blocked thread re-enters via Scheduler.wake when whatever
		// primitive it registered with signals it.
	}
	return true, nil
}

// wake re-inserts t into the ready queue; called by code that holds a
// reference to both a Scheduler and a Thread after one of that thread's
// blocking primitives wakes it. qxk's primitives wake threads directly
// (Thread.wake), which flips their State but does not know about any
// Scheduler's ready queue; callers that want a woken thread to actually
// run again must call this once they observe the state change (e.g. after
// their own primitive call returns, or from a periodic reconciliation
// pass).
func (s *Scheduler) wake(t *Thread) {
	if t.State() != StateReady {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertReady(t)
}

// Reconcile re-admits any registered thread that has transitioned back to
// Ready (e.g. woken by a Semaphore.Signal/Mutex.Unlock/Queue
// send-or-receive/CondVar.Notify call) but is not currently in the ready
// queue. Callers that drive blocking primitives from outside a thread's
// own handler (the common case: one thread signals a primitive another
// thread is waiting on) should call Reconcile on the affected threads, or
// simply pass them all here between Step calls.
func (s *Scheduler) Reconcile(threads ...*Thread) {
	for _, t := range threads {
		s.wake(t)
	}
}

// RunUntilIdle repeatedly calls Step until no active object or thread is
// ready.
func (s *Scheduler) RunUntilIdle() error {
	for {
		dispatched, err := s.Step()
		if err != nil {
			return err
		}
		if !dispatched {
			return nil
		}
	}
}

// Run drives the scheduler until ctx is canceled, blocking on wait
// whenever both the active-object ready set and the thread ready queue
// are empty. See qv.Scheduler.Run for the contract.
func (s *Scheduler) Run(ctx context.Context, wait func(context.Context) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		dispatched, err := s.Step()
		if err != nil {
			return err
		}
		if dispatched {
			continue
		}
		if wait == nil {
			return nil
		}
		if err := wait(ctx); err != nil {
			return err
		}
	}
}
