package qf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexusqp/qpkernel/event"
)

func TestBoundedQueueFIFOOrder(t *testing.T) {
	q := newBoundedQueue(3)
	e1 := event.New(event.SignalUser, 1)
	e2 := event.New(event.SignalUser, 2)
	e3 := event.New(event.SignalUser, 3)

	require.True(t, q.pushBack(e1))
	require.True(t, q.pushBack(e2))
	require.True(t, q.pushBack(e3))
	require.True(t, q.full())
	require.False(t, q.pushBack(event.New(event.SignalUser, 4)))

	got, ok := q.popFront()
	require.True(t, ok)
	require.Equal(t, e1, got)

	got, ok = q.popFront()
	require.True(t, ok)
	require.Equal(t, e2, got)

	got, ok = q.popFront()
	require.True(t, ok)
	require.Equal(t, e3, got)

	_, ok = q.popFront()
	require.False(t, ok)
}

func TestBoundedQueuePushFrontPriority(t *testing.T) {
	q := newBoundedQueue(2)
	back := event.New(event.SignalUser, 1)
	front := event.New(event.SignalUser, 2)

	require.True(t, q.pushBack(back))
	require.True(t, q.pushFront(front))

	got, ok := q.popFront()
	require.True(t, ok)
	require.Equal(t, front, got)

	got, ok = q.popFront()
	require.True(t, ok)
	require.Equal(t, back, got)
}

func TestBoundedQueueWrapsAroundRingBuffer(t *testing.T) {
	q := newBoundedQueue(2)
	e1 := event.New(event.SignalUser, 1)
	e2 := event.New(event.SignalUser, 2)
	e3 := event.New(event.SignalUser, 3)

	require.True(t, q.pushBack(e1))
	require.True(t, q.pushBack(e2))

	got, ok := q.popFront()
	require.True(t, ok)
	require.Equal(t, e1, got)

	require.True(t, q.pushBack(e3))

	got, ok = q.popFront()
	require.True(t, ok)
	require.Equal(t, e2, got)

	got, ok = q.popFront()
	require.True(t, ok)
	require.Equal(t, e3, got)
}
