package qxk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestThreadPollContinueStaysReady(t *testing.T) {
	th := NewThread(Config{ID: 1, Priority: 5, Handler: func(*Thread) Action { return Continue }})
	require.Equal(t, StateReady, th.State())

	require.Equal(t, Continue, th.poll())
	require.Equal(t, StateReady, th.State())
	require.Equal(t, uint64(1), th.Iteration())
}

func TestThreadPollBlockedThenWake(t *testing.T) {
	th := NewThread(Config{ID: 1, Priority: 5, Handler: func(*Thread) Action { return Blocked }})

	require.Equal(t, Blocked, th.poll())
	require.Equal(t, StateBlocked, th.State())

	th.wake()
	require.Equal(t, StateReady, th.State())
}

func TestThreadPollTerminatedIsPermanent(t *testing.T) {
	calls := 0
	th := NewThread(Config{ID: 1, Priority: 5, Handler: func(*Thread) Action {
		calls++
		return Terminated
	}})

	require.Equal(t, Terminated, th.poll())
	require.Equal(t, StateTerminated, th.State())

	// wake must not resurrect a terminated thread.
	th.wake()
	require.Equal(t, StateTerminated, th.State())

	// polling again must not invoke the handler.
	require.Equal(t, Terminated, th.poll())
	require.Equal(t, 1, calls)
}

func TestActionString(t *testing.T) {
	require.Equal(t, "continue", Continue.String())
	require.Equal(t, "yield", Yield.String())
	require.Equal(t, "blocked", Blocked.String())
	require.Equal(t, "terminated", Terminated.String())
}
