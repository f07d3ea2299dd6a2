package qf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexusqp/qpkernel/event"
)

func newRegisteredAO(t *testing.T, id, priority uint8) (*Kernel, *ActiveObject[*aoOwner], *aoOwner) {
	t.Helper()
	k := NewKernel()
	owner := &aoOwner{}
	ao, err := NewActiveObject[*aoOwner](id, priority, 0, 4, owner, aoTop)
	require.NoError(t, err)
	require.NoError(t, k.Register(ao))
	require.NoError(t, k.Start())
	return k, ao, owner
}

func TestKernelRegisterRejectsDuplicateID(t *testing.T) {
	k := NewKernel()
	ao1, err := NewActiveObject[*aoOwner](1, 10, 0, 4, &aoOwner{}, aoTop)
	require.NoError(t, err)
	ao2, err := NewActiveObject[*aoOwner](1, 20, 0, 4, &aoOwner{}, aoTop)
	require.NoError(t, err)

	require.NoError(t, k.Register(ao1))
	require.ErrorIs(t, k.Register(ao2), ErrDuplicatePriority)
}

func TestKernelRegisterRejectsDuplicatePriority(t *testing.T) {
	k := NewKernel()
	ao1, err := NewActiveObject[*aoOwner](1, 10, 0, 4, &aoOwner{}, aoTop)
	require.NoError(t, err)
	ao2, err := NewActiveObject[*aoOwner](2, 10, 0, 4, &aoOwner{}, aoTop)
	require.NoError(t, err)

	require.NoError(t, k.Register(ao1))
	require.ErrorIs(t, k.Register(ao2), ErrDuplicatePriority)
}

func TestKernelPostSetsReadyBit(t *testing.T) {
	k, ao, _ := newRegisteredAO(t, 1, 10)

	require.NoError(t, k.Post(1, event.New(event.SignalUser, nil)))
	require.True(t, k.ReadySet().Contains(ao.Priority()))
}

func TestKernelPostUnknownTargetReturnsErrNotFound(t *testing.T) {
	k := NewKernel()
	require.ErrorIs(t, k.Post(99, event.New(event.SignalUser, nil)), ErrNotFound)
}

func TestKernelDispatchPriorityClearsReadyBitWhenDrained(t *testing.T) {
	k, ao, owner := newRegisteredAO(t, 1, 10)
	require.NoError(t, k.Post(1, event.New(event.SignalUser, nil)))

	require.NoError(t, k.DispatchPriority(ao.Priority()))
	require.Equal(t, 1, owner.handled)
	require.False(t, k.ReadySet().Contains(ao.Priority()))
}

func TestKernelSelectReadyRespectsCeiling(t *testing.T) {
	k, ao, _ := newRegisteredAO(t, 1, 10)
	require.NoError(t, k.Post(1, event.New(event.SignalUser, nil)))

	_, ok := k.SelectReady(10)
	require.False(t, ok) // priority 10 is not strictly greater than ceiling 10

	got, ok := k.SelectReady(5)
	require.True(t, ok)
	require.Equal(t, ao, got)
}

func TestKernelPublishFansOutToEveryActiveObject(t *testing.T) {
	k := NewKernel()
	owner1 := &aoOwner{}
	owner2 := &aoOwner{}
	ao1, err := NewActiveObject[*aoOwner](1, 10, 0, 4, owner1, aoTop)
	require.NoError(t, err)
	ao2, err := NewActiveObject[*aoOwner](2, 20, 0, 4, owner2, aoTop)
	require.NoError(t, err)
	require.NoError(t, k.Register(ao1))
	require.NoError(t, k.Register(ao2))
	require.NoError(t, k.Start())

	errs := k.Publish(event.SignalUser, nil)
	require.Empty(t, errs)

	require.NoError(t, k.DispatchPriority(10))
	require.NoError(t, k.DispatchPriority(20))
	require.Equal(t, 1, owner1.handled)
	require.Equal(t, 1, owner2.handled)
}

func TestKernelLockSchedulerAffectsHasPendingWork(t *testing.T) {
	k, ao, _ := newRegisteredAO(t, 1, 10)
	require.NoError(t, k.Post(1, event.New(event.SignalUser, nil)))
	require.True(t, k.HasPendingWork())

	tok := k.LockScheduler(ao.Priority())
	require.False(t, k.HasPendingWork())

	k.UnlockScheduler(tok)
	require.True(t, k.HasPendingWork())
}

func TestKernelNoteScheduledAndNoteIdleEmitSchedTraces(t *testing.T) {
	tracer := &recordingTimerTracer{}
	k := NewKernel(WithTracer(tracer))

	k.NoteScheduled(10)
	k.NoteScheduled(10) // no change: must not re-emit
	k.NoteIdle()

	require.Equal(t, 1, tracer.schedNext)
	require.Equal(t, uint8(10), tracer.lastPrio)
	require.Equal(t, 1, tracer.schedIdle)
	require.Equal(t, uint8(10), tracer.lastIdlePrio)
	require.Equal(t, uint8(0), k.prevPrio)
}
