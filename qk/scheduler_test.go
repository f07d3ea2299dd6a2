package qk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexusqp/qpkernel/event"
	"github.com/nexusqp/qpkernel/hsm"
	"github.com/nexusqp/qpkernel/qf"
)

type owner struct {
	order  *[]uint8
	id     uint8
	kernel *qf.Kernel
	postTo uint8 // non-zero: post a SignalUser event to this AO id on dispatch
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
		if o.postTo != 0 {
			_ = o.kernel.Post(o.postTo, event.New(event.SignalUser, nil))
		}
		return hsm.Handled[*owner]()
	case event.SignalInit, event.SignalEntry, event.SignalExit:
		return hsm.Handled[*owner]()
	default:
		return hsm.Super[*owner](top)
	}
}

func registerAO(t *testing.T, k *qf.Kernel, id, priority, threshold uint8, o *owner) {
	t.Helper()
	ao, err := qf.NewActiveObject[*owner](id, priority, threshold, 4, o, top)
	require.NoError(t, err)
	require.NoError(t, k.Register(ao))
}

func TestSchedulerDispatchesHighestPriorityFirst(t *testing.T) {
	var order []uint8
	k := qf.NewKernel()
	registerAO(t, k, 1, 10, 0, &owner{order: &order, id: 1})
	registerAO(t, k, 2, 20, 0, &owner{order: &order, id: 2})
	require.NoError(t, k.Start())

	require.NoError(t, k.Post(1, event.New(event.SignalUser, nil)))
	require.NoError(t, k.Post(2, event.New(event.SignalUser, nil)))

	s := New(k)
	require.NoError(t, s.RunUntilIdle())

	require.Equal(t, []uint8{2, 1}, order)
}

func TestSchedulerNestedActivationRunsHigherPriorityBeforeOuterReturns(t *testing.T) {
	var order []uint8
	k := qf.NewKernel()
	registerAO(t, k, 1, 10, 10, &owner{order: &order, id: 1, kernel: k, postTo: 3})
	registerAO(t, k, 2, 20, 20, &owner{order: &order, id: 2})
	registerAO(t, k, 3, 50, 50, &owner{order: &order, id: 3})
	require.NoError(t, k.Start())

	// mid(20) is ready from the start and outranks low(10); low, once it
	// runs, posts to high(50) from inside its handler.
	require.NoError(t, k.Post(1, event.New(event.SignalUser, nil)))
	require.NoError(t, k.Post(2, event.New(event.SignalUser, nil)))

	s := New(k)
	require.NoError(t, s.RunUntilIdle())

	require.Equal(t, []uint8{2, 1, 3}, order)
}

func TestSchedulerStepReturnsFalseWhenIdle(t *testing.T) {
	var order []uint8
	k := qf.NewKernel()
	registerAO(t, k, 1, 10, 0, &owner{order: &order, id: 1})
	require.NoError(t, k.Start())

	s := New(k)
	dispatched, err := s.Step()
	require.NoError(t, err)
	require.False(t, dispatched)
}

func TestSchedulerRunStopsOnContextCancellation(t *testing.T) {
	var order []uint8
	k := qf.NewKernel()
	registerAO(t, k, 1, 10, 0, &owner{order: &order, id: 1})
	require.NoError(t, k.Start())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(k)
	err := s.Run(ctx, func(context.Context) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}
