package qs

import (
	"sync"
	"time"

	"github.com/nexusqp/qpkernel/event"
)

// DefaultMaxRecordLen is the default payload length limit (spec.md §4.I),
// excluding header and checksum.
const DefaultMaxRecordLen = 64

// EmitterConfig configures an Emitter. The zero value is invalid; use
// NewEmitter which applies DefaultMaxRecordLen; timestamps stay off unless
// IncludeTimestamp is set.
type EmitterConfig struct {
	// MaxRecordLen bounds a single record's payload length; Record rejects
	// anything larger with ErrPayloadTooLarge. Defaults to
	// DefaultMaxRecordLen if zero.
	MaxRecordLen int
	// IncludeTimestamp gates whether timestamp-bearing records actually
	// carry one; per-record suppression (spec.md §6's "(no timestamp)"
	// entries) always applies regardless of this setting.
	IncludeTimestamp bool
}

// Emitter builds and frames QS records, handing complete HDLC frames to a
// TraceBackend. It implements qf.Tracer (via embedding hsm.Tracer's method
// set plus the scheduler/time-event points) by mapping each call to its
// bit-exact record id and payload, per spec.md §6's table. Grounded on
// original_source/crates/qs/src/lib.rs's Tracer/TracerHandle.
type Emitter struct {
	backend TraceBackend
	cfg     EmitterConfig

	mu    sync.Mutex
	seq   uint8
	epoch time.Time
}

// NewEmitter builds an Emitter writing frames to backend. A zero cfg gets
// MaxRecordLen defaulted to DefaultMaxRecordLen; IncludeTimestamp is taken
// as given (false by default, matching Go's zero value — callers wanting
// timestamps must opt in explicitly, unlike the Rust default of true).
func NewEmitter(backend TraceBackend, cfg EmitterConfig) *Emitter {
	if cfg.MaxRecordLen <= 0 {
		cfg.MaxRecordLen = DefaultMaxRecordLen
	}
	return &Emitter{backend: backend, cfg: cfg, epoch: time.Now()}
}

// Record is the core QS encode-and-emit step (spec.md §4.I steps 1-7):
// validate length, advance the sequence counter, optionally stamp a
// microsecond timestamp, checksum the body, HDLC-frame it, and hand the
// frame to the backend in one WriteFrame call.
func (e *Emitter) Record(recordType uint8, payload []byte, withTimestamp bool) error {
	if len(payload) > e.cfg.MaxRecordLen {
		return &PayloadTooLargeError{Len: len(payload)}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++ // wraps at 256, matching the u8 sequence counter
	seq := e.seq
	var stampBytes [4]byte
	stamp := e.cfg.IncludeTimestamp && withTimestamp
	if stamp {
		micros := uint32(time.Since(e.epoch).Microseconds())
		stampBytes[0] = byte(micros)
		stampBytes[1] = byte(micros >> 8)
		stampBytes[2] = byte(micros >> 16)
		stampBytes[3] = byte(micros >> 24)
	}

	body := make([]byte, 0, 2+4+len(payload))
	body = append(body, seq, recordType)
	if stamp {
		body = append(body, stampBytes[:]...)
	}
	body = append(body, payload...)

	frame := hdlcFrame(body)
	if err := e.backend.WriteFrame(frame); err != nil {
		return &TransportError{Err: err}
	}
	return nil
}

const (
	hdlcFlag   byte = 0x7E
	hdlcEsc    byte = 0x7D
	hdlcEscXor byte = 0x20
)

// hdlcFrame computes the checksum over body, appends it, byte-stuffs the
// whole thing, and appends a literal (unescaped) flag delimiter. Grounded
// on spec.md §6's "HDLC framing" and original_source/crates/qs/src/lib.rs's
// build_frame.
func hdlcFrame(body []byte) []byte {
	var checksum byte
	out := make([]byte, 0, len(body)+4)

	stuff := func(b byte) {
		if b == hdlcFlag || b == hdlcEsc {
			out = append(out, hdlcEsc, b^hdlcEscXor)
		} else {
			out = append(out, b)
		}
	}

	for _, b := range body {
		checksum += b
		stuff(b)
	}
	stuff(^checksum)
	out = append(out, hdlcFlag)
	return out
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

// recordFixed is a small helper that records a built-in (non-user) record,
// looking up whether it carries a timestamp from the spec.md §6 table and
// ignoring the resulting error: trace emission is best-effort per spec.md
// §4.I's failure model ("transport errors propagate to the caller that
// triggered emission, but emission is best-effort and never unwinds kernel
// state"). Callers that need the error use Record directly.
func (e *Emitter) recordFixed(recordType uint8, payload []byte) {
	_ = e.Record(recordType, payload, recordHasTimestamp(recordType))
}

// --- hsm.Tracer ---

func (e *Emitter) StateEntry(objAddr, stateAddr uint64) {
	e.recordFixed(RecStateEntry, append(le64(objAddr), le64(stateAddr)...))
}

func (e *Emitter) StateExit(objAddr, stateAddr uint64) {
	e.recordFixed(RecStateExit, append(le64(objAddr), le64(stateAddr)...))
}

func (e *Emitter) StateInit(objAddr, source, target uint64) {
	payload := append(le64(objAddr), le64(source)...)
	payload = append(payload, le64(target)...)
	e.recordFixed(RecStateInit, payload)
}

func (e *Emitter) InitTran(objAddr, target uint64) {
	e.recordFixed(RecInitTran, append(le64(objAddr), le64(target)...))
}

func (e *Emitter) InternTran(signal event.Signal, objAddr, state uint64) {
	payload := append(le16(uint16(signal)), le64(objAddr)...)
	payload = append(payload, le64(state)...)
	e.recordFixed(RecInternTran, payload)
}

func (e *Emitter) Tran(signal event.Signal, objAddr, source, target uint64) {
	payload := append(le16(uint16(signal)), le64(objAddr)...)
	payload = append(payload, le64(source)...)
	payload = append(payload, le64(target)...)
	e.recordFixed(RecTran, payload)
}

func (e *Emitter) Ignored(signal event.Signal, objAddr, state uint64) {
	payload := append(le16(uint16(signal)), le64(objAddr)...)
	payload = append(payload, le64(state)...)
	e.recordFixed(RecIgnored, payload)
}

func (e *Emitter) Dispatch(signal event.Signal, objAddr, state uint64) {
	payload := append(le16(uint16(signal)), le64(objAddr)...)
	payload = append(payload, le64(state)...)
	e.recordFixed(RecDispatch, payload)
}

func (e *Emitter) Unhandled(signal event.Signal, objAddr, state uint64) {
	payload := append(le16(uint16(signal)), le64(objAddr)...)
	payload = append(payload, le64(state)...)
	e.recordFixed(RecUnhandled, payload)
}

// --- qf.Tracer scheduler/time-event points ---

func (e *Emitter) SchedLock(prevCeiling, newCeiling uint8) {
	e.recordFixed(RecSchedLock, []byte{prevCeiling, newCeiling})
}

func (e *Emitter) SchedUnlock(prevCeiling, newCeiling uint8) {
	e.recordFixed(RecSchedUnlock, []byte{prevCeiling, newCeiling})
}

func (e *Emitter) SchedNext(newPrio, prevPrio uint8) {
	e.recordFixed(RecSchedNext, []byte{newPrio, prevPrio})
}

func (e *Emitter) SchedIdle(prevPrio uint8) {
	e.recordFixed(RecSchedIdle, []byte{prevPrio})
}

func (e *Emitter) TimeEvtArm(teAddr, target uint64, timeout, interval uint16, rate uint8) {
	payload := append(le64(teAddr), le64(target)...)
	payload = append(payload, le16(timeout)...)
	payload = append(payload, le16(interval)...)
	payload = append(payload, rate)
	e.recordFixed(RecTimeEvtArm, payload)
}

func (e *Emitter) TimeEvtAutoDisarm(teAddr, target uint64, rate uint8) {
	payload := append(le64(teAddr), le64(target)...)
	payload = append(payload, rate)
	e.recordFixed(RecTimeEvtAutoDisarm, payload)
}

func (e *Emitter) TimeEvtDisarmAttempt(teAddr, target uint64, rate uint8) {
	payload := append(le64(teAddr), le64(target)...)
	payload = append(payload, rate)
	e.recordFixed(RecTimeEvtDisarmAttempt, payload)
}

func (e *Emitter) TimeEvtDisarm(teAddr, target uint64, remaining, interval uint16, rate uint8) {
	payload := append(le64(teAddr), le64(target)...)
	payload = append(payload, le16(remaining)...)
	payload = append(payload, le16(interval)...)
	payload = append(payload, rate)
	e.recordFixed(RecTimeEvtDisarm, payload)
}

func (e *Emitter) TimeEvtPost(teAddr uint64, signal event.Signal, target uint64, rate uint8) {
	payload := append(le64(teAddr), le16(uint16(signal))...)
	payload = append(payload, le64(target)...)
	payload = append(payload, rate)
	e.recordFixed(RecTimeEvtPost, payload)
}

// --- Dictionary & target-info emission (spec.md §4.I: "Predefined
// non-maskable record families") ---

// EmitTargetInfo sends the one-shot TARGET_INFO record a host tool expects
// on connection.
func (e *Emitter) EmitTargetInfo(info TargetInfo) error {
	return e.Record(RecTargetInfo, TargetInfoPayload(info), false)
}

// EmitObjDict sends an OBJ_DICT record mapping address to name.
func (e *Emitter) EmitObjDict(address uint64, name string) error {
	return e.Record(RecObjDict, ObjDictPayload(address, name), true)
}

// EmitFunDict sends a FUN_DICT record mapping address to name.
func (e *Emitter) EmitFunDict(address uint64, name string) error {
	return e.Record(RecFunDict, FunDictPayload(address, name), true)
}

// EmitUsrDict sends a USR_DICT record mapping a user record id to name.
func (e *Emitter) EmitUsrDict(recordID uint8, name string) error {
	return e.Record(RecUsrDict, UsrDictPayload(recordID, name), true)
}

// EmitSigDict sends a SIG_DICT record mapping (signal, object) to name.
func (e *Emitter) EmitSigDict(signal uint16, object uint64, name string) error {
	return e.Record(RecSigDict, SigDictPayload(signal, object, name), true)
}

// EmitUser sends a user record (spec.md §6: "≥100 | user records"); kind
// must be >= RecUserBase.
func (e *Emitter) EmitUser(kind uint8, payload []byte, withTimestamp bool) error {
	return e.Record(kind, payload, withTimestamp)
}
