package qf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchedulerLockRaisesAndRestoresCeiling(t *testing.T) {
	var l SchedulerLock
	require.Equal(t, uint8(0), l.Ceiling())

	tok := l.Lock(10)
	require.Equal(t, uint8(10), l.Ceiling())

	inner := l.Lock(20)
	require.Equal(t, uint8(20), l.Ceiling())

	l.Unlock(inner)
	require.Equal(t, uint8(10), l.Ceiling())

	l.Unlock(tok)
	require.Equal(t, uint8(0), l.Ceiling())
}

func TestSchedulerLockNoopWhenNotRaising(t *testing.T) {
	var l SchedulerLock
	l.Lock(10)

	tok := l.Lock(5) // does not raise the ceiling
	require.Equal(t, uint8(10), l.Ceiling())

	l.Unlock(tok) // no-op: must not clobber the outer lock
	require.Equal(t, uint8(10), l.Ceiling())
}
