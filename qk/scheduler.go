package qk

import (
	"context"

	"github.com/nexusqp/qpkernel/qf"
)

// Scheduler drives a qf.Kernel with the preemptive run-to-completion
// policy. Like qv.Scheduler, it holds no state beyond the kernel reference;
// the scheduler-lock ceiling stack lives entirely in qf.Kernel.
type Scheduler struct {
	kernel *qf.Kernel
}

// New wraps kernel with the QK scheduling policy. kernel.Start must
// already have been called.
func New(kernel *qf.Kernel) *Scheduler {
	return &Scheduler{kernel: kernel}
}

// Step selects the highest-priority active object ready above the
// kernel's current ceiling, raises the ceiling to that active object's
// preemption threshold (spec.md §4.F's "Selection"/"Preemption threshold"
// steps), dispatches exactly one event (the "Commit & dispatch" step), and
// restores the ceiling (the "Re-selection" step's restore case; the "run
// it" case is handled by the caller looping and calling Step again).
func (s *Scheduler) Step() (bool, error) {
	ceiling := s.kernel.CurrentCeiling()
	ao, ok := s.kernel.SelectReady(ceiling)
	if !ok {
		s.kernel.NoteIdle()
		return false, nil
	}

	token := s.kernel.LockScheduler(ao.Threshold())
	s.kernel.NoteScheduled(ao.Priority())
	err := s.kernel.DispatchPriority(ao.Priority())
	s.kernel.UnlockScheduler(token)
	if err != nil {
		return true, err
	}
	return true, nil
}

// RunUntilIdle repeatedly calls Step until no active object is ready above
// the ceiling. Per the package doc, this is what realizes nested
// activation: a handler's post to a higher-priority active object is
// picked up by the very next Step call, before any lower-priority active
// object gets a turn.
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
// whenever the kernel falls idle. See qv.Scheduler.Run for the contract;
// the policy difference is entirely in Step.
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
