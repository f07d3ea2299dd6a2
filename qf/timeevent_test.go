package qf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexusqp/qpkernel/event"
)

func TestTimeEventArmAndOneShotFire(t *testing.T) {
	te := NewTimeEvent(1, 5, event.SignalUser)
	te.Arm(2, 0, nil)
	require.True(t, te.IsArmed())

	fired, auto := te.poll()
	require.False(t, fired)
	require.False(t, auto)

	fired, auto = te.poll()
	require.True(t, fired)
	require.True(t, auto)
	require.False(t, te.IsArmed())
}

func TestTimeEventPeriodicRearmsAfterFiring(t *testing.T) {
	te := NewTimeEvent(1, 5, event.SignalUser)
	te.Arm(1, 3, nil)

	fired, auto := te.poll()
	require.True(t, fired)
	require.False(t, auto)
	require.True(t, te.IsArmed())

	// period is 3: two more polls should not fire, the third should.
	fired, _ = te.poll()
	require.False(t, fired)
	fired, _ = te.poll()
	require.False(t, fired)
	fired, _ = te.poll()
	require.True(t, fired)
}

func TestTimeEventDisarmBeforeFiring(t *testing.T) {
	te := NewTimeEvent(1, 5, event.SignalUser)
	te.Arm(10, 0, nil)
	te.Disarm(nil)
	require.False(t, te.IsArmed())

	fired, _ := te.poll()
	require.False(t, fired)
}

type recordingTimerTracer struct {
	noopTracer
	armed      int
	autoDis    int
	disarmAtt  int
	disarmed   int
	posted     int
	schedNext  int
	schedIdle  int
	lastPrio   uint8
	lastIdlePrio uint8
}

func (r *recordingTimerTracer) TimeEvtArm(teAddr, target uint64, timeout, interval uint16, rate uint8) {
	r.armed++
}
func (r *recordingTimerTracer) TimeEvtAutoDisarm(teAddr, target uint64, rate uint8) { r.autoDis++ }
func (r *recordingTimerTracer) TimeEvtDisarmAttempt(teAddr, target uint64, rate uint8) {
	r.disarmAtt++
}
func (r *recordingTimerTracer) TimeEvtDisarm(teAddr, target uint64, remaining, interval uint16, rate uint8) {
	r.disarmed++
}
func (r *recordingTimerTracer) TimeEvtPost(teAddr uint64, signal event.Signal, target uint64, rate uint8) {
	r.posted++
}
func (r *recordingTimerTracer) SchedNext(newPrio, prevPrio uint8) {
	r.schedNext++
	r.lastPrio = newPrio
}
func (r *recordingTimerTracer) SchedIdle(prevPrio uint8) {
	r.schedIdle++
	r.lastIdlePrio = prevPrio
}

func TestTimeEventWheelTickFiresAndPostsToKernel(t *testing.T) {
	k := NewKernel()
	owner := &aoOwner{}
	ao, err := NewActiveObject[*aoOwner](7, 10, 0, 4, owner, aoTop)
	require.NoError(t, err)
	require.NoError(t, k.Register(ao))
	require.NoError(t, k.Start())

	tracer := &recordingTimerTracer{}
	k.cfg.tracer = tracer

	wheel := NewTimeEventWheel(k)
	te := NewTimeEvent(1, 7, event.SignalUser)
	te.Arm(1, 0, tracer)
	wheel.Register(te)

	require.NoError(t, wheel.Tick())

	require.Equal(t, 1, tracer.armed)
	require.Equal(t, 1, tracer.autoDis)
	require.Equal(t, 1, tracer.posted)
	require.True(t, ao.HasEvents())
}

// noopTracer implements qf.Tracer with every method a no-op; embedding it
// lets tests override only the calls they care about.
type noopTracer struct{}

func (noopTracer) StateEntry(objAddr, stateAddr uint64)                       {}
func (noopTracer) StateExit(objAddr, stateAddr uint64)                        {}
func (noopTracer) StateInit(objAddr, source, target uint64)                   {}
func (noopTracer) InitTran(objAddr, target uint64)                            {}
func (noopTracer) InternTran(signal event.Signal, objAddr, state uint64)      {}
func (noopTracer) Tran(signal event.Signal, objAddr, source, target uint64)   {}
func (noopTracer) Ignored(signal event.Signal, objAddr, state uint64)         {}
func (noopTracer) Dispatch(signal event.Signal, objAddr, state uint64)        {}
func (noopTracer) Unhandled(signal event.Signal, objAddr, state uint64)       {}
func (noopTracer) SchedLock(prevCeiling, newCeiling uint8)                    {}
func (noopTracer) SchedUnlock(prevCeiling, newCeiling uint8)                  {}
func (noopTracer) SchedNext(newPrio, prevPrio uint8)                          {}
func (noopTracer) SchedIdle(prevPrio uint8)                                   {}
func (noopTracer) TimeEvtArm(teAddr, target uint64, timeout, interval uint16, rate uint8) {}
func (noopTracer) TimeEvtAutoDisarm(teAddr, target uint64, rate uint8)        {}
func (noopTracer) TimeEvtDisarmAttempt(teAddr, target uint64, rate uint8)     {}
func (noopTracer) TimeEvtDisarm(teAddr, target uint64, remaining, interval uint16, rate uint8) {}
func (noopTracer) TimeEvtPost(teAddr uint64, signal event.Signal, target uint64, rate uint8)   {}
