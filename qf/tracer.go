package qf

import (
	"github.com/nexusqp/qpkernel/event"
	"github.com/nexusqp/qpkernel/hsm"
)

// Tracer is the full set of QS trace emission points a Kernel and its
// scheduler may produce: the HSM-engine points (embedded from hsm.Tracer)
// plus the scheduler-lock, scheduler-selection, and time-event points named
// in spec.md §6's record table. Package qs's Emitter implements Tracer by
// mapping each call to its bit-exact record id and payload layout.
type Tracer interface {
	hsm.Tracer

	SchedLock(prevCeiling, newCeiling uint8)
	SchedUnlock(prevCeiling, newCeiling uint8)
	SchedNext(newPrio, prevPrio uint8)
	SchedIdle(prevPrio uint8)

	TimeEvtArm(teAddr, target uint64, timeout, interval uint16, rate uint8)
	TimeEvtAutoDisarm(teAddr, target uint64, rate uint8)
	TimeEvtDisarmAttempt(teAddr, target uint64, rate uint8)
	TimeEvtDisarm(teAddr, target uint64, remaining, interval uint16, rate uint8)
	TimeEvtPost(teAddr uint64, signal event.Signal, target uint64, rate uint8)
}
