package host

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexusqp/qpkernel/qs"
)

func emitAndDecode(t *testing.T, recordType uint8, payload []byte, withTimestamp bool) (*Interpreter, Record) {
	t.Helper()
	var buf bytes.Buffer
	e := qs.NewEmitter(qs.NewWriterBackend(&buf), qs.EmitterConfig{IncludeTimestamp: true})
	require.NoError(t, e.Record(recordType, payload, withTimestamp))

	d := NewDeframer()
	results := d.Write(buf.Bytes())
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	return NewInterpreter(), results[0].Record
}

func TestInterpreterDecodesStateEntry(t *testing.T) {
	payload := append(le64(1), le64(2)...)
	ip, rec := emitAndDecode(t, qs.RecStateEntry, payload, true)

	line := ip.Decode(rec)

	require.Equal(t, "STATE_ENTRY", line.Name)
	require.NotNil(t, line.Timestamp)
	require.Len(t, line.Fields, 2)
	require.Equal(t, "obj", line.Fields[0].Name)
}

func TestInterpreterResolvesObjectDictionary(t *testing.T) {
	ip := NewInterpreter()
	var buf bytes.Buffer
	e := qs.NewEmitter(qs.NewWriterBackend(&buf), qs.EmitterConfig{IncludeTimestamp: true})
	require.NoError(t, e.Record(qs.RecObjDict, qs.ObjDictPayload(0xAAAA, "philo[0]"), true))
	require.NoError(t, e.Record(qs.RecStateEntry, append(le64(0xAAAA), le64(0xBEEF)...), true))

	d := NewDeframer()
	results := d.Write(buf.Bytes())
	require.Len(t, results, 2)

	dictLine := ip.Decode(results[0].Record)
	require.Equal(t, "OBJ_DICT", dictLine.Name)

	entryLine := ip.Decode(results[1].Record)
	require.Equal(t, "philo[0]", entryLine.Fields[0].Value)
}

func TestInterpreterSignalFallsBackToObjectZero(t *testing.T) {
	ip := NewInterpreter()
	var buf bytes.Buffer
	e := qs.NewEmitter(qs.NewWriterBackend(&buf), qs.EmitterConfig{IncludeTimestamp: true})
	// register a global signal name (object id 0), then use it against a
	// different object.
	require.NoError(t, e.Record(qs.RecSigDict, qs.SigDictPayload(7, 0, "TICK"), true))
	payload := append(le16(7), append(le64(99), le64(0)...)...)
	require.NoError(t, e.Record(qs.RecDispatch, payload, true))

	d := NewDeframer()
	results := d.Write(buf.Bytes())
	require.Len(t, results, 2)

	ip.Decode(results[0].Record)
	line := ip.Decode(results[1].Record)

	require.Equal(t, "TICK", line.Fields[0].Value)
}

func TestInterpreterHexDumpsUnknownRecordType(t *testing.T) {
	ip, rec := emitAndDecode(t, 17, []byte{0xCA, 0xFE}, false)

	line := ip.Decode(rec)

	require.Equal(t, "REC(17)", line.Name)
	require.Equal(t, "hex", line.Fields[0].Name)
	require.Equal(t, "cafe", line.Fields[0].Value)
}

func TestInterpreterDecodesUserRecordFieldSequence(t *testing.T) {
	builder := qs.NewUserRecordBuilder().PushU8(0, 200).PushStr("ready")
	ip, rec := emitAndDecode(t, qs.RecUserBase, builder.Bytes(), true)

	line := ip.Decode(rec)

	require.Equal(t, "USR(100)", line.Name)
	require.Equal(t, "200", line.Fields[0].Value)
	require.Equal(t, "ready", line.Fields[1].Value)
}

func TestInterpreterUsesUsrDictName(t *testing.T) {
	ip := NewInterpreter()
	var buf bytes.Buffer
	e := qs.NewEmitter(qs.NewWriterBackend(&buf), qs.EmitterConfig{IncludeTimestamp: true})
	require.NoError(t, e.Record(qs.RecUsrDict, qs.UsrDictPayload(qs.RecUserBase, "PHILO_HUNGRY"), true))
	require.NoError(t, e.Record(qs.RecUserBase, nil, true))

	d := NewDeframer()
	results := d.Write(buf.Bytes())
	require.Len(t, results, 2)

	ip.Decode(results[0].Record)
	line := ip.Decode(results[1].Record)

	require.Equal(t, "PHILO_HUNGRY", line.Name)
}

func le64(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

func le16(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}
