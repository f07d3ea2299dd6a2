package host

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strings"
	"sync"

	"github.com/joeycumines/floater"

	"github.com/nexusqp/qpkernel/qs"
)

// signalKey is the (signal, object) lookup key for the signal dictionary;
// spec.md §4.J: "signals ((signal, object) → name with a fallback to
// object=0)".
type signalKey struct {
	signal uint16
	object uint64
}

// Interpreter resolves decoded Records against the four dictionaries a
// target streams ahead of use and renders a human-readable line for each,
// per spec.md §4.J. It is safe for concurrent use; dictionary records and
// data records commonly arrive interleaved on one stream but nothing
// prevents decoding from more than one goroutine.
type Interpreter struct {
	mu          sync.Mutex
	objects     map[uint64]string
	functions   map[uint64]string
	signals     map[signalKey]string
	userRecords map[uint8]string
}

// NewInterpreter returns an Interpreter with empty dictionaries.
func NewInterpreter() *Interpreter {
	return &Interpreter{
		objects:     make(map[uint64]string),
		functions:   make(map[uint64]string),
		signals:     make(map[signalKey]string),
		userRecords: make(map[uint8]string),
	}
}

func (ip *Interpreter) objectName(addr uint64) string {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	if name, ok := ip.objects[addr]; ok {
		return name
	}
	return fmt.Sprintf("0x%016X", addr)
}

func (ip *Interpreter) functionName(addr uint64) string {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	if name, ok := ip.functions[addr]; ok {
		return name
	}
	return fmt.Sprintf("0x%016X", addr)
}

func (ip *Interpreter) signalName(signal uint16, object uint64) string {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	if name, ok := ip.signals[signalKey{signal, object}]; ok {
		return name
	}
	if name, ok := ip.signals[signalKey{signal, 0}]; ok {
		return name
	}
	return fmt.Sprintf("SIG(%d)", signal)
}

func (ip *Interpreter) userRecordName(id uint8) string {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	if name, ok := ip.userRecords[id]; ok {
		return name
	}
	return fmt.Sprintf("USR(%d)", id)
}

// Field is one rendered name/value pair within a decoded line.
type Field struct {
	Name  string
	Value string
}

// Line is a fully decoded, human-readable trace record.
type Line struct {
	Seq       uint8
	Type      uint8
	Name      string
	Timestamp *uint32
	Fields    []Field
}

// String renders l the way a host tool's console output does: sequence,
// record name, optional timestamp, then "field=value" pairs in record
// order.
func (l Line) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%03d %-20s", l.Seq, l.Name)
	if l.Timestamp != nil {
		fmt.Fprintf(&b, " t=%d", *l.Timestamp)
	}
	for _, f := range l.Fields {
		fmt.Fprintf(&b, " %s=%s", f.Name, f.Value)
	}
	return b.String()
}

// Decode renders rec using the dictionaries accumulated so far. Dictionary
// records (SIG_DICT/OBJ_DICT/FUN_DICT/USR_DICT) update those dictionaries
// as a side effect, in addition to being rendered themselves. Record types
// below qs.RecUserBase that are not named in spec.md §6's table fall back
// to a hex-dump rendering of their payload. Records >= qs.RecUserBase are
// always decoded as user fields, named USR(n) when no USR_DICT entry exists.
func (ip *Interpreter) Decode(rec Record) Line {
	payload := rec.Payload
	var ts *uint32
	if qs.RecordHasTimestamp(uint8(rec.Type)) && len(payload) >= 4 {
		v := binary.LittleEndian.Uint32(payload[:4])
		ts = &v
		payload = payload[4:]
	}

	line := Line{Seq: rec.Seq, Type: rec.Type, Timestamp: ts}

	switch rec.Type {
	case qs.RecStateEntry:
		line.Name = "STATE_ENTRY"
		line.Fields = ip.objStateFields(payload, "state")
	case qs.RecStateExit:
		line.Name = "STATE_EXIT"
		line.Fields = ip.objStateFields(payload, "state")
	case qs.RecStateInit:
		line.Name = "STATE_INIT"
		line.Fields = ip.objSourceTargetFields(payload)
	case qs.RecInitTran:
		line.Name = "INIT_TRAN"
		line.Fields = ip.objStateFields(payload, "target")
	case qs.RecInternTran:
		line.Name = "INTERN_TRAN"
		line.Fields = ip.sigObjStateFields(payload, "state")
	case qs.RecTran:
		line.Name = "TRAN"
		line.Fields = ip.sigObjSourceTargetFields(payload)
	case qs.RecIgnored:
		line.Name = "IGNORED"
		line.Fields = ip.sigObjStateFields(payload, "state")
	case qs.RecDispatch:
		line.Name = "DISPATCH"
		line.Fields = ip.sigObjStateFields(payload, "state")
	case qs.RecUnhandled:
		line.Name = "UNHANDLED"
		line.Fields = ip.sigObjStateFields(payload, "state")

	case qs.RecTimeEvtArm:
		line.Name = "TIMEEVT_ARM"
		line.Fields = ip.timeEvtArmFields(payload)
	case qs.RecTimeEvtAutoDisarm:
		line.Name = "TIMEEVT_AUTO_DISARM"
		line.Fields = ip.timeEvtRateFields(payload)
	case qs.RecTimeEvtDisarmAttempt:
		line.Name = "TIMEEVT_DISARM_ATTEMPT"
		line.Fields = ip.timeEvtRateFields(payload)
	case qs.RecTimeEvtDisarm:
		line.Name = "TIMEEVT_DISARM"
		line.Fields = ip.timeEvtDisarmFields(payload)
	case qs.RecTimeEvtPost:
		line.Name = "TIMEEVT_POST"
		line.Fields = ip.timeEvtPostFields(payload)

	case qs.RecSchedLock:
		line.Name = "SCHED_LOCK"
		line.Fields = u8Pair(payload, "prev_ceiling", "new_ceiling")
	case qs.RecSchedUnlock:
		line.Name = "SCHED_UNLOCK"
		line.Fields = u8Pair(payload, "prev_ceiling", "new_ceiling")
	case qs.RecSchedNext:
		line.Name = "SCHED_NEXT"
		line.Fields = u8Pair(payload, "new_prio", "prev_prio")
	case qs.RecSchedIdle:
		line.Name = "SCHED_IDLE"
		if len(payload) >= 1 {
			line.Fields = []Field{{"prev_prio", fmt.Sprint(payload[0])}}
		}

	case qs.RecSigDict:
		line.Name = "SIG_DICT"
		line.Fields = ip.decodeSigDict(payload)
	case qs.RecObjDict:
		line.Name = "OBJ_DICT"
		line.Fields = ip.decodeObjDict(payload, ip.objects)
	case qs.RecFunDict:
		line.Name = "FUN_DICT"
		line.Fields = ip.decodeObjDict(payload, ip.functions)
	case qs.RecUsrDict:
		line.Name = "USR_DICT"
		line.Fields = ip.decodeUsrDict(payload)
	case qs.RecTargetInfo:
		line.Name = "TARGET_INFO"
		line.Fields = decodeTargetInfo(payload)

	default:
		if rec.Type >= qs.RecUserBase {
			line.Name = ip.userRecordName(rec.Type)
			line.Fields = ip.decodeUserFields(payload)
		} else {
			line.Name = fmt.Sprintf("REC(%d)", rec.Type)
			line.Fields = []Field{{"hex", hex.EncodeToString(rec.Payload)}}
		}
	}

	return line
}

// --- fixed-layout field decoders, one per distinct shape in spec.md §6 ---

func (ip *Interpreter) objStateFields(p []byte, stateLabel string) []Field {
	if len(p) < 16 {
		return nil
	}
	obj := binary.LittleEndian.Uint64(p[0:8])
	state := binary.LittleEndian.Uint64(p[8:16])
	return []Field{
		{"obj", ip.objectName(obj)},
		{stateLabel, ip.functionName(state)},
	}
}

func (ip *Interpreter) objSourceTargetFields(p []byte) []Field {
	if len(p) < 24 {
		return nil
	}
	obj := binary.LittleEndian.Uint64(p[0:8])
	source := binary.LittleEndian.Uint64(p[8:16])
	target := binary.LittleEndian.Uint64(p[16:24])
	return []Field{
		{"obj", ip.objectName(obj)},
		{"source", ip.functionName(source)},
		{"target", ip.functionName(target)},
	}
}

func (ip *Interpreter) sigObjStateFields(p []byte, stateLabel string) []Field {
	if len(p) < 18 {
		return nil
	}
	sig := binary.LittleEndian.Uint16(p[0:2])
	obj := binary.LittleEndian.Uint64(p[2:10])
	state := binary.LittleEndian.Uint64(p[10:18])
	return []Field{
		{"sig", ip.signalName(sig, obj)},
		{"obj", ip.objectName(obj)},
		{stateLabel, ip.functionName(state)},
	}
}

func (ip *Interpreter) sigObjSourceTargetFields(p []byte) []Field {
	if len(p) < 26 {
		return nil
	}
	sig := binary.LittleEndian.Uint16(p[0:2])
	obj := binary.LittleEndian.Uint64(p[2:10])
	source := binary.LittleEndian.Uint64(p[10:18])
	target := binary.LittleEndian.Uint64(p[18:26])
	return []Field{
		{"sig", ip.signalName(sig, obj)},
		{"obj", ip.objectName(obj)},
		{"source", ip.functionName(source)},
		{"target", ip.functionName(target)},
	}
}

func (ip *Interpreter) timeEvtArmFields(p []byte) []Field {
	if len(p) < 21 {
		return nil
	}
	teAddr := binary.LittleEndian.Uint64(p[0:8])
	target := binary.LittleEndian.Uint64(p[8:16])
	timeout := binary.LittleEndian.Uint16(p[16:18])
	interval := binary.LittleEndian.Uint16(p[18:20])
	rate := p[20]
	return []Field{
		{"te", ip.objectName(teAddr)},
		{"target", ip.objectName(target)},
		{"timeout", fmt.Sprint(timeout)},
		{"interval", fmt.Sprint(interval)},
		{"rate", fmt.Sprint(rate)},
	}
}

func (ip *Interpreter) timeEvtRateFields(p []byte) []Field {
	if len(p) < 17 {
		return nil
	}
	teAddr := binary.LittleEndian.Uint64(p[0:8])
	target := binary.LittleEndian.Uint64(p[8:16])
	rate := p[16]
	return []Field{
		{"te", ip.objectName(teAddr)},
		{"target", ip.objectName(target)},
		{"rate", fmt.Sprint(rate)},
	}
}

func (ip *Interpreter) timeEvtDisarmFields(p []byte) []Field {
	if len(p) < 21 {
		return nil
	}
	teAddr := binary.LittleEndian.Uint64(p[0:8])
	target := binary.LittleEndian.Uint64(p[8:16])
	remaining := binary.LittleEndian.Uint16(p[16:18])
	interval := binary.LittleEndian.Uint16(p[18:20])
	rate := p[20]
	return []Field{
		{"te", ip.objectName(teAddr)},
		{"target", ip.objectName(target)},
		{"remaining", fmt.Sprint(remaining)},
		{"interval", fmt.Sprint(interval)},
		{"rate", fmt.Sprint(rate)},
	}
}

func (ip *Interpreter) timeEvtPostFields(p []byte) []Field {
	if len(p) < 19 {
		return nil
	}
	teAddr := binary.LittleEndian.Uint64(p[0:8])
	sig := binary.LittleEndian.Uint16(p[8:10])
	target := binary.LittleEndian.Uint64(p[10:18])
	rate := p[18]
	return []Field{
		{"te", ip.objectName(teAddr)},
		{"sig", ip.signalName(sig, target)},
		{"target", ip.objectName(target)},
		{"rate", fmt.Sprint(rate)},
	}
}

func u8Pair(p []byte, name0, name1 string) []Field {
	if len(p) < 2 {
		return nil
	}
	return []Field{{name0, fmt.Sprint(p[0])}, {name1, fmt.Sprint(p[1])}}
}

// cstring splits a NUL-terminated string off the front of p, returning the
// string and whatever followed the terminator.
func cstring(p []byte) (string, []byte) {
	for i, b := range p {
		if b == 0 {
			return string(p[:i]), p[i+1:]
		}
	}
	return string(p), nil
}

func (ip *Interpreter) decodeSigDict(p []byte) []Field {
	if len(p) < 10 {
		return nil
	}
	sig := binary.LittleEndian.Uint16(p[0:2])
	obj := binary.LittleEndian.Uint64(p[2:10])
	name, _ := cstring(p[10:])
	ip.mu.Lock()
	ip.signals[signalKey{sig, obj}] = name
	ip.mu.Unlock()
	return []Field{
		{"sig", fmt.Sprint(sig)},
		{"obj", ip.objectName(obj)},
		{"name", name},
	}
}

func (ip *Interpreter) decodeObjDict(p []byte, into map[uint64]string) []Field {
	if len(p) < 8 {
		return nil
	}
	addr := binary.LittleEndian.Uint64(p[0:8])
	name, _ := cstring(p[8:])
	ip.mu.Lock()
	into[addr] = name
	ip.mu.Unlock()
	return []Field{
		{"addr", fmt.Sprintf("0x%016X", addr)},
		{"name", name},
	}
}

func (ip *Interpreter) decodeUsrDict(p []byte) []Field {
	if len(p) < 1 {
		return nil
	}
	id := p[0]
	name, _ := cstring(p[1:])
	ip.mu.Lock()
	ip.userRecords[id] = name
	ip.mu.Unlock()
	return []Field{
		{"id", fmt.Sprint(id)},
		{"name", name},
	}
}

// decodeTargetInfo decodes the fixed TARGET_INFO layout (spec.md §6):
// is_reset:u8(0), version:u16(1-2), packed_sizes:5×u8(3-7), max_active:u8(8),
// pools_and_ticks:u8(9), time:3×u8(10-12, second/minute/hour per
// qs.TargetInfoPayload's field order), date:3×u8(13-15, day/month/year).
func decodeTargetInfo(p []byte) []Field {
	if len(p) < 16 {
		return nil
	}
	version := binary.LittleEndian.Uint16(p[1:3])
	maxActive := p[8]
	poolsAndTicks := p[9]
	ss, mm, hh := p[10], p[11], p[12]
	day, month, year := p[13], p[14], p[15]
	return []Field{
		{"is_reset", fmt.Sprint(p[0])},
		{"version", fmt.Sprint(version)},
		{"max_active", fmt.Sprint(maxActive)},
		{"max_event_pools", fmt.Sprint(poolsAndTicks & 0x0F)},
		{"max_tick_rate", fmt.Sprint(poolsAndTicks >> 4)},
		{"build_time", fmt.Sprintf("%02d:%02d:%02d", hh, mm, ss)},
		{"build_date", fmt.Sprintf("%02d-%02d-%02d", day, month, year)},
	}
}

// decodeUserFields walks a self-describing user-record field sequence
// (spec.md §4.I: "format byte per field ... lower nibble = type code").
// An unrecognized or truncated field stops decoding and appends a trailing
// hex-dump field for whatever bytes remain, rather than silently losing
// data.
func (ip *Interpreter) decodeUserFields(p []byte) []Field {
	var fields []Field
	for len(p) > 0 {
		format := p[0]
		p = p[1:]
		base := format & 0x0F

		switch base {
		case qs.FmtU8, qs.FmtI8Enum:
			if len(p) < 1 {
				return append(fields, Field{"trailing", hex.EncodeToString(p)})
			}
			fields = append(fields, Field{"u8", fmt.Sprint(p[0])})
			p = p[1:]
		case qs.FmtU16, qs.FmtI16, qs.FmtSig:
			if len(p) < 2 {
				return append(fields, Field{"trailing", hex.EncodeToString(p)})
			}
			v := binary.LittleEndian.Uint16(p[:2])
			name := "u16"
			if base == qs.FmtSig {
				name = "sig"
			}
			fields = append(fields, Field{name, fmt.Sprint(v)})
			p = p[2:]
		case qs.FmtU32, qs.FmtI32:
			if len(p) < 4 {
				return append(fields, Field{"trailing", hex.EncodeToString(p)})
			}
			fields = append(fields, Field{"u32", fmt.Sprint(binary.LittleEndian.Uint32(p[:4]))})
			p = p[4:]
		case qs.FmtF32:
			if len(p) < 4 {
				return append(fields, Field{"trailing", hex.EncodeToString(p)})
			}
			bits := binary.LittleEndian.Uint32(p[:4])
			fields = append(fields, Field{"f32", formatFloat(float64(math.Float32frombits(bits)))})
			p = p[4:]
		case qs.FmtU64, qs.FmtI64, qs.FmtObj, qs.FmtFun:
			if len(p) < 8 {
				return append(fields, Field{"trailing", hex.EncodeToString(p)})
			}
			v := binary.LittleEndian.Uint64(p[:8])
			name := map[uint8]string{qs.FmtU64: "u64", qs.FmtI64: "i64", qs.FmtObj: "obj", qs.FmtFun: "fun"}[base]
			value := fmt.Sprint(v)
			if base == qs.FmtObj {
				value = ip.objectName(v)
			} else if base == qs.FmtFun {
				value = ip.functionName(v)
			}
			fields = append(fields, Field{name, value})
			p = p[8:]
		case qs.FmtF64:
			if len(p) < 8 {
				return append(fields, Field{"trailing", hex.EncodeToString(p)})
			}
			bits := binary.LittleEndian.Uint64(p[:8])
			fields = append(fields, Field{"f64", formatFloat(math.Float64frombits(bits))})
			p = p[8:]
		case qs.FmtStr:
			s, rest := cstring(p)
			fields = append(fields, Field{"str", s})
			p = rest
		case qs.FmtMem:
			if len(p) < 1 || len(p) < 1+int(p[0]) {
				return append(fields, Field{"trailing", hex.EncodeToString(p)})
			}
			n := int(p[0])
			fields = append(fields, Field{"mem", hex.EncodeToString(p[1 : 1+n])})
			p = p[1+n:]
		default: // FmtHex and anything unrecognized: dump the remainder.
			fields = append(fields, Field{"hex", hex.EncodeToString(p)})
			return fields
		}
	}
	return fields
}

// formatFloat renders v using floater.FormatDecimalRat (the library the
// rest of the pack reaches for instead of strconv.FormatFloat's scientific
// fallback), with at most 6 fractional digits. The field's display-width
// hint is not consulted.
func formatFloat(v float64) string {
	rat := new(big.Rat).SetFloat64(v)
	if rat == nil {
		return fmt.Sprint(v)
	}
	return floater.FormatDecimalRat(rat, -1, 6)
}
