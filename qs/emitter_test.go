package qs

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordRejectsOversizedPayload(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(NewWriterBackend(&buf), EmitterConfig{MaxRecordLen: 4})

	err := e.Record(RecUserBase, []byte{1, 2, 3, 4, 5}, false)

	var tooLarge *PayloadTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	require.Equal(t, 5, tooLarge.Len)
}

func TestRecordAcceptsPayloadAtExactLimit(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(NewWriterBackend(&buf), EmitterConfig{MaxRecordLen: 4})

	require.NoError(t, e.Record(RecUserBase, []byte{1, 2, 3, 4}, false))
	require.NotEmpty(t, buf.Bytes())
}

func TestRecordSequenceWrapsModulo256(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(NewWriterBackend(&buf), EmitterConfig{})
	e.seq = 255

	require.NoError(t, e.Record(RecUserBase, nil, false))
	require.Equal(t, uint8(0), e.seq)

	require.NoError(t, e.Record(RecUserBase, nil, false))
	require.Equal(t, uint8(1), e.seq)
}

func TestRecordPropagatesTransportError(t *testing.T) {
	boom := errors.New("boom")
	backend := NewCallbackBackend(func([]byte) error { return boom })
	e := NewEmitter(backend, EmitterConfig{})

	err := e.Record(RecUserBase, nil, false)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.ErrorIs(t, transportErr, boom)
}

// TestHDLCFrameStuffsAndDelimits exercises spec.md §8 S6: a body passed
// through hdlcFrame ends with FLAG and has its 0x7E/0x7D bytes escaped.
func TestHDLCFrameStuffsAndDelimits(t *testing.T) {
	body := []byte{1, 0x42, 0x7E, 0x7D, 0xDE, 0xAD, 0xBE, 0xEF}

	frame := hdlcFrame(body)

	require.Equal(t, hdlcFlag, frame[len(frame)-1])
	// every 0x7E/0x7D byte in the body is escaped as (ESC, byte^0x20)
	require.Contains(t, string(frame), string([]byte{hdlcEsc, 0x7E ^ hdlcEscXor}))
	require.Contains(t, string(frame), string([]byte{hdlcEsc, 0x7D ^ hdlcEscXor}))
}
