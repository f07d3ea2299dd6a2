package qs

import "fmt"

// User-record field format identifiers (the lower nibble of a format
// descriptor byte; spec.md §4.I: "lower nibble = type code ... upper
// nibble = display-width hint"). Grounded on
// original_source/crates/qs/src/record.rs.
const (
	FmtI8Enum uint8 = 0x0
	FmtU8     uint8 = 0x1
	FmtI16    uint8 = 0x2
	FmtU16    uint8 = 0x3
	FmtI32    uint8 = 0x4
	FmtU32    uint8 = 0x5
	FmtF32    uint8 = 0x6
	FmtF64    uint8 = 0x7
	FmtStr    uint8 = 0x8
	FmtMem    uint8 = 0x9
	FmtSig    uint8 = 0xA
	FmtObj    uint8 = 0xB
	FmtFun    uint8 = 0xC
	FmtI64    uint8 = 0xD
	FmtU64    uint8 = 0xE
	FmtHex    uint8 = 0xF
)

// MakeFormat combines a display-width hint with a base format identifier
// into a single format descriptor byte.
func MakeFormat(width, base uint8) uint8 {
	return (width&0x0F)<<4 | (base & 0x0F)
}

// UserRecordBuilder incrementally assembles the format-byte-tagged field
// sequence of a user record payload (spec.md §4.I). Grounded on
// original_source/crates/qs/src/record.rs's UserRecordBuilder.
type UserRecordBuilder struct {
	bytes []byte
}

// NewUserRecordBuilder returns an empty builder.
func NewUserRecordBuilder() *UserRecordBuilder {
	return &UserRecordBuilder{}
}

// PushU8 appends an unsigned 8-bit field.
func (b *UserRecordBuilder) PushU8(width, value uint8) *UserRecordBuilder {
	b.bytes = append(b.bytes, MakeFormat(width, FmtU8), value)
	return b
}

// PushU16 appends a little-endian unsigned 16-bit field.
func (b *UserRecordBuilder) PushU16(width uint8, value uint16) *UserRecordBuilder {
	b.bytes = append(b.bytes, MakeFormat(width, FmtU16), byte(value), byte(value>>8))
	return b
}

// PushU32 appends a little-endian unsigned 32-bit field.
func (b *UserRecordBuilder) PushU32(width uint8, value uint32) *UserRecordBuilder {
	b.bytes = append(b.bytes, MakeFormat(width, FmtU32), byte(value), byte(value>>8), byte(value>>16), byte(value>>24))
	return b
}

// PushU64 appends a little-endian unsigned 64-bit field.
func (b *UserRecordBuilder) PushU64(width uint8, value uint64) *UserRecordBuilder {
	b.bytes = append(b.bytes, MakeFormat(width, FmtU64))
	for i := 0; i < 8; i++ {
		b.bytes = append(b.bytes, byte(value>>(8*i)))
	}
	return b
}

// PushMem appends a raw memory blob, length-prefixed by a single byte.
// Panics if len(data) > 255, mirroring the original's hard assertion that
// QS MEM payloads fit a u8 length.
func (b *UserRecordBuilder) PushMem(data []byte) *UserRecordBuilder {
	if len(data) > 255 {
		panic(fmt.Sprintf("qs: MEM payload of %d bytes exceeds 255-byte limit", len(data)))
	}
	b.bytes = append(b.bytes, MakeFormat(0, FmtMem), byte(len(data)))
	b.bytes = append(b.bytes, data...)
	return b
}

// PushStr appends a null-terminated ASCII/UTF-8 string field.
func (b *UserRecordBuilder) PushStr(value string) *UserRecordBuilder {
	b.bytes = append(b.bytes, MakeFormat(0, FmtStr))
	b.bytes = append(b.bytes, value...)
	b.bytes = append(b.bytes, 0)
	return b
}

// PushRaw appends a pre-computed format descriptor alongside raw bytes, for
// field kinds (signal, object, function pointer, hex dump) that don't need
// a dedicated helper.
func (b *UserRecordBuilder) PushRaw(format uint8, raw []byte) *UserRecordBuilder {
	b.bytes = append(b.bytes, format)
	b.bytes = append(b.bytes, raw...)
	return b
}

// Bytes returns the accumulated payload.
func (b *UserRecordBuilder) Bytes() []byte {
	return b.bytes
}
