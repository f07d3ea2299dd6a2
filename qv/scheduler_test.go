package qv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexusqp/qpkernel/event"
	"github.com/nexusqp/qpkernel/hsm"
	"github.com/nexusqp/qpkernel/qf"
)

type owner struct {
	order *[]uint8
	id    uint8
}

func top(o *owner, e hsm.Event) hsm.Outcome[*owner] {
	switch e.Signal() {
	case event.SignalInit:
		return hsm.Initial[*owner](leaf)
	case event.SignalEmpty:
		return hsm.Handled[*owner]()
	default:
		return hsm.Unhandled[*owner]()
	}
}

func leaf(o *owner, e hsm.Event) hsm.Outcome[*owner] {
	switch e.Signal() {
	case event.SignalUser:
		*o.order = append(*o.order, o.id)
		return hsm.Handled[*owner]()
	case event.SignalInit, event.SignalEntry, event.SignalExit:
		return hsm.Handled[*owner]()
	default:
		return hsm.Super[*owner](top)
	}
}

func newTestKernel(t *testing.T, order *[]uint8, ids, priorities []uint8) *qf.Kernel {
	t.Helper()
	k := qf.NewKernel()
	for i := range ids {
		ao, err := qf.NewActiveObject[*owner](ids[i], priorities[i], 0, 4, &owner{order: order, id: ids[i]}, top)
		require.NoError(t, err)
		require.NoError(t, k.Register(ao))
	}
	require.NoError(t, k.Start())
	return k
}

func TestSchedulerStepDispatchesHighestPriorityFirst(t *testing.T) {
	var order []uint8
	k := newTestKernel(t, &order, []uint8{1, 2}, []uint8{10, 20})

	require.NoError(t, k.Post(1, event.New(event.SignalUser, nil)))
	require.NoError(t, k.Post(2, event.New(event.SignalUser, nil)))

	s := New(k)
	require.NoError(t, s.RunUntilIdle())

	require.Equal(t, []uint8{2, 1}, order)
}

func TestSchedulerStepReturnsFalseWhenIdle(t *testing.T) {
	k := newTestKernel(t, &[]uint8{}, []uint8{1}, []uint8{10})
	s := New(k)

	dispatched, err := s.Step()
	require.NoError(t, err)
	require.False(t, dispatched)
}

func TestSchedulerRunStopsOnContextCancellation(t *testing.T) {
	k := newTestKernel(t, &[]uint8{}, []uint8{1}, []uint8{10})
	s := New(k)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Run(ctx, func(context.Context) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestSchedulerRunWithNilWaitActsLikeRunUntilIdle(t *testing.T) {
	var order []uint8
	k := newTestKernel(t, &order, []uint8{1}, []uint8{10})
	require.NoError(t, k.Post(1, event.New(event.SignalUser, nil)))

	s := New(k)
	require.NoError(t, s.Run(context.Background(), nil))
	require.Equal(t, []uint8{1}, order)
}
