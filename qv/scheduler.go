package qv

import (
	"context"

	"github.com/nexusqp/qpkernel/qf"
)

// Scheduler drives a qf.Kernel with the cooperative policy: always dispatch
// the single highest-priority ready active object above the current
// scheduler-lock ceiling, running its handler to completion before
// reconsidering. Scheduler holds no state of its own beyond the kernel
// reference; all bookkeeping (ready set, lock ceiling, prev-priority) lives
// in qf.Kernel.
type Scheduler struct {
	kernel *qf.Kernel
}

// New wraps kernel with the cooperative scheduling policy. kernel.Start
// must already have been called.
func New(kernel *qf.Kernel) *Scheduler {
	return &Scheduler{kernel: kernel}
}

// Step selects and dispatches a single event, mirroring
// original_source/crates/qf/src/kernel.rs's dispatch_once: if no active
// object is ready above the ceiling, it notes the kernel idle and returns
// false without blocking.
func (s *Scheduler) Step() (bool, error) {
	ao, ok := s.kernel.SelectReady(s.kernel.CurrentCeiling())
	if !ok {
		s.kernel.NoteIdle()
		return false, nil
	}

	s.kernel.NoteScheduled(ao.Priority())
	if err := s.kernel.DispatchPriority(ao.Priority()); err != nil {
		return true, err
	}
	return true, nil
}

// RunUntilIdle repeatedly calls Step until no active object is ready above
// the ceiling, matching run_until_idle in the original.
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

// Run drives the scheduler until ctx is canceled. When the kernel falls
// idle, Run calls wait(ctx) and blocks until it returns before
// re-checking for ready work; wait is expected to block on whatever
// external wake source the caller has wired up (e.g. a posted-event
// notification channel, or internal/posix's eventfd-backed tick source).
// A nil wait makes Run behave like a single RunUntilIdle pass.
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
