package qf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexusqp/qpkernel/event"
	"github.com/nexusqp/qpkernel/hsm"
)

type aoOwner struct {
	handled int
}

func aoTop(o *aoOwner, e hsm.Event) hsm.Outcome[*aoOwner] {
	switch e.Signal() {
	case event.SignalInit:
		return hsm.Initial[*aoOwner](aoLeaf)
	case event.SignalEmpty:
		return hsm.Handled[*aoOwner]()
	default:
		return hsm.Unhandled[*aoOwner]()
	}
}

func aoLeaf(o *aoOwner, e hsm.Event) hsm.Outcome[*aoOwner] {
	switch e.Signal() {
	case event.SignalUser:
		o.handled++
		return hsm.Handled[*aoOwner]()
	case event.SignalInit, event.SignalEntry, event.SignalExit:
		return hsm.Handled[*aoOwner]()
	default:
		return hsm.Super[*aoOwner](aoTop)
	}
}

func TestNewActiveObjectValidatesPriorityAndThreshold(t *testing.T) {
	_, err := NewActiveObject[*aoOwner](1, 0, 0, 4, &aoOwner{}, aoTop)
	require.ErrorIs(t, err, ErrInvalidPriority)

	_, err = NewActiveObject[*aoOwner](1, 64, 0, 4, &aoOwner{}, aoTop)
	require.ErrorIs(t, err, ErrInvalidPriority)

	_, err = NewActiveObject[*aoOwner](1, 10, 5, 4, &aoOwner{}, aoTop)
	require.ErrorIs(t, err, ErrInvalidThreshold)

	ao, err := NewActiveObject[*aoOwner](1, 10, 0, 4, &aoOwner{}, aoTop)
	require.NoError(t, err)
	require.Equal(t, uint8(10), ao.Threshold()) // defaults to priority
}

func TestActiveObjectPostAndDispatch(t *testing.T) {
	owner := &aoOwner{}
	ao, err := NewActiveObject[*aoOwner](1, 10, 0, 2, owner, aoTop)
	require.NoError(t, err)
	require.NoError(t, ao.Start(nil))

	wasEmpty, err := ao.Post(event.New(event.SignalUser, nil))
	require.NoError(t, err)
	require.True(t, wasEmpty)

	dispatched, becameEmpty, err := ao.DispatchOne()
	require.NoError(t, err)
	require.True(t, dispatched)
	require.True(t, becameEmpty)
	require.Equal(t, 1, owner.handled)
}

func TestActiveObjectQueueFullReturnsErrQueueFull(t *testing.T) {
	ao, err := NewActiveObject[*aoOwner](1, 10, 0, 1, &aoOwner{}, aoTop)
	require.NoError(t, err)
	require.NoError(t, ao.Start(nil))

	_, err = ao.Post(event.New(event.SignalUser, nil))
	require.NoError(t, err)

	_, err = ao.Post(event.New(event.SignalUser, nil))
	require.ErrorIs(t, err, ErrQueueFull)
}

func TestActiveObjectDispatchOneOnEmptyQueue(t *testing.T) {
	ao, err := NewActiveObject[*aoOwner](1, 10, 0, 1, &aoOwner{}, aoTop)
	require.NoError(t, err)
	require.NoError(t, ao.Start(nil))

	dispatched, becameEmpty, err := ao.DispatchOne()
	require.NoError(t, err)
	require.False(t, dispatched)
	require.True(t, becameEmpty)
}
