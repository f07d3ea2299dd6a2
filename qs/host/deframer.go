package host

// HDLC constants, mirrored from qs.Emitter's framing (spec.md §6: "Byte
// stuffing: 0x7E→(0x7D, 0x5E); 0x7D→(0x7D, 0x5D). Frame delimiter: single
// literal 0x7E."). Kept as an independent copy rather than importing qs's
// unexported constants: the decoder is a distinct consumer of the wire
// format, matching original_source's split between the target-side
// crates/qs encoder and the separate tools/qspy host decoder.
const (
	flag   byte = 0x7E
	esc    byte = 0x7D
	escXor byte = 0x20
)

// Record is a fully reassembled, checksum-verified QS record: the wire
// triple {seq, type, payload} with the checksum byte already stripped.
// Whether payload's first 4 bytes are a timestamp depends on Type and is
// resolved by the caller (typically via qs.RecordHasTimestamp) rather than
// by the Deframer, which has no notion of record semantics.
type Record struct {
	Seq     uint8
	Type    uint8
	Payload []byte
}

// Deframer reassembles a raw HDLC byte stream into Records, per spec.md
// §4.J. It is not safe for concurrent use; feed it bytes from a single
// reader goroutine.
type Deframer struct {
	buf     []byte
	escaped bool
}

// NewDeframer returns an empty Deframer.
func NewDeframer() *Deframer {
	return &Deframer{}
}

// Push feeds a single byte. Per spec.md §4.J:
//
//  1. on FLAG, if the accumulated buffer is non-empty, extract and validate
//     a frame candidate, then reset the buffer (ok=true on success, or
//     err!=nil if validation failed — either way the candidate is
//     consumed);
//  2. on ESC, set the escaped flag and consume the byte;
//  3. otherwise, push b^0x20 if escaped (then clear the flag), else push b
//     as-is.
//
// Push returns ok=false, err=nil when no frame boundary was reached yet.
func (d *Deframer) Push(b byte) (rec Record, err error, ok bool) {
	switch b {
	case flag:
		if len(d.buf) == 0 {
			d.escaped = false
			return Record{}, nil, false
		}
		candidate := d.buf
		d.buf = nil
		d.escaped = false
		rec, err = decode(candidate)
		return rec, err, err == nil
	case esc:
		d.escaped = true
		return Record{}, nil, false
	default:
		if d.escaped {
			d.buf = append(d.buf, b^escXor)
			d.escaped = false
		} else {
			d.buf = append(d.buf, b)
		}
		return Record{}, nil, false
	}
}

// Result pairs a decoded Record with a possible validation error, preserving
// the order frame boundaries were encountered in a Write call.
type Result struct {
	Record Record
	Err    error
}

// Write feeds every byte of p through Push and collects one Result per
// frame boundary crossed (valid or not). Readers resynchronize on the next
// FLAG regardless of whether the prior candidate validated, matching
// spec.md §4.J's "Frame validation" step.
func (d *Deframer) Write(p []byte) []Result {
	var out []Result
	for _, b := range p {
		rec, err, ok := d.Push(b)
		if ok || err != nil {
			out = append(out, Result{Record: rec, Err: err})
		}
	}
	return out
}

// decode validates a de-stuffed frame candidate (body ∥ checksum) and
// splits it into a Record, per spec.md §4.J step 5.
func decode(candidate []byte) (Record, error) {
	if len(candidate) < 3 {
		return Record{}, ErrFrameTooShort
	}
	body := candidate[:len(candidate)-1]
	checksum := candidate[len(candidate)-1]

	var sum byte
	for _, b := range body {
		sum += b
	}
	if ^sum != checksum {
		return Record{}, ErrInvalidChecksum
	}

	return Record{
		Seq:     body[0],
		Type:    body[1],
		Payload: append([]byte(nil), body[2:]...),
	}, nil
}
