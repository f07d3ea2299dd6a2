package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalString(t *testing.T) {
	assert.Equal(t, "INIT", SignalInit.String())
	assert.Equal(t, "EMPTY", SignalEmpty.String())
	assert.Equal(t, "SIG(42)", Signal(42).String())
	assert.True(t, SignalExit.IsReserved())
	assert.False(t, Signal(4).IsReserved())
}

func TestNewAndRelease(t *testing.T) {
	e := New(Signal(42), []byte("payload"))
	assert.Equal(t, Signal(42), e.Signal())
	assert.Equal(t, []byte("payload"), e.Payload())
	assert.False(t, e.PoolBound())

	// last release of an unpooled event is a no-op drop.
	e.Release()
}

func TestShareIncrementsAndReleaseBalances(t *testing.T) {
	e := New(Signal(1), nil)

	shared, err := e.Share()
	require.NoError(t, err)
	assert.Same(t, e, shared)

	// two holders now; releasing one should not reclaim anything observable.
	e.Release()
	e.Release()
}

func TestShareOverflow(t *testing.T) {
	e := New(Signal(1), nil)
	e.refs.Store(maxRefCount)

	_, err := e.Share()
	assert.ErrorIs(t, err, ErrRefCountOverflow)
}

func TestFixedPoolExhaustion(t *testing.T) {
	pool := NewFixedPool(1)

	e1, err := pool.Acquire(Signal(4), nil)
	require.NoError(t, err)
	assert.True(t, e1.PoolBound())
	assert.Equal(t, 0, pool.Available())

	_, err = pool.Acquire(Signal(4), nil)
	assert.ErrorIs(t, err, ErrOutOfEvents)

	e1.Release()
	assert.Equal(t, 1, pool.Available())

	e2, err := pool.Acquire(Signal(4), nil)
	require.NoError(t, err)
	e2.Release()
}

func TestUnboundedPool(t *testing.T) {
	pool := NewFixedPool(0)
	assert.Equal(t, -1, pool.Available())

	for i := 0; i < 100; i++ {
		e, err := pool.Acquire(Signal(4), nil)
		require.NoError(t, err)
		e.Release()
	}
}
