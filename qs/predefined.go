package qs

// TargetInfo is the payload content of a TARGET_INFO record, sent once when
// a host tool connects so it can interpret the rest of the stream's field
// widths. Grounded on original_source/crates/qs/src/predefined.rs's
// TargetInfo.
type TargetInfo struct {
	IsReset         uint8
	Version         uint16
	SignalSize      uint8
	EventSize       uint8
	EqueueCtrSize   uint8
	TimeEvtCtrSize  uint8
	MPoolSizeSize   uint8
	MPoolCtrSize    uint8
	ObjPtrSize      uint8
	FunPtrSize      uint8
	TimeSize        uint8
	MaxActive       uint8
	MaxEventPools   uint8
	MaxTickRate     uint8
	BuildHour       uint8
	BuildMinute     uint8
	BuildSecond     uint8
	BuildDay        uint8
	BuildMonth      uint8
	BuildYear       uint8 // year % 100
}

// DefaultTargetInfo mirrors the original's TargetInfo::default, describing
// a typical 64-bit host build.
func DefaultTargetInfo() TargetInfo {
	return TargetInfo{
		IsReset:        0xFF,
		Version:        740,
		SignalSize:     2,
		EventSize:      2,
		EqueueCtrSize:  2,
		TimeEvtCtrSize: 2,
		MPoolSizeSize:  2,
		MPoolCtrSize:   2,
		ObjPtrSize:     8,
		FunPtrSize:     8,
		TimeSize:       4,
		MaxActive:      16,
		MaxEventPools:  3,
		MaxTickRate:    4,
		BuildHour:      11,
		BuildMinute:    13,
		BuildSecond:    21,
		BuildDay:       18,
		BuildMonth:     10,
		BuildYear:      25,
	}
}

// TargetInfoPayload encodes info per spec.md §6's TARGET_INFO layout:
// is_reset:u8, version:u16, packed_sizes:5×u8, max_active:u8,
// pools_and_ticks:u8, time:3×u8, date:3×u8.
func TargetInfoPayload(info TargetInfo) []byte {
	b := make([]byte, 0, 16)
	b = append(b, info.IsReset)
	b = append(b, byte(info.Version), byte(info.Version>>8))
	b = append(b, info.SignalSize|info.EventSize<<4)
	b = append(b, info.EqueueCtrSize|info.TimeEvtCtrSize<<4)
	b = append(b, info.MPoolSizeSize|info.MPoolCtrSize<<4)
	b = append(b, info.ObjPtrSize|info.FunPtrSize<<4)
	b = append(b, info.TimeSize)
	b = append(b, info.MaxActive)
	b = append(b, info.MaxEventPools|info.MaxTickRate<<4)
	b = append(b, info.BuildSecond, info.BuildMinute, info.BuildHour)
	b = append(b, info.BuildDay, info.BuildMonth, info.BuildYear)
	return b
}

func pushCString(b []byte, name string) []byte {
	b = append(b, name...)
	return append(b, 0)
}

// ObjDictPayload encodes an OBJ_DICT record payload: address:u64,
// name:c-string.
func ObjDictPayload(address uint64, name string) []byte {
	b := make([]byte, 0, 8+len(name)+1)
	for i := 0; i < 8; i++ {
		b = append(b, byte(address>>(8*i)))
	}
	return pushCString(b, name)
}

// FunDictPayload encodes a FUN_DICT record payload; same layout as
// ObjDictPayload.
func FunDictPayload(address uint64, name string) []byte {
	return ObjDictPayload(address, name)
}

// UsrDictPayload encodes a USR_DICT record payload: id:u8, name:c-string.
func UsrDictPayload(recordID uint8, name string) []byte {
	b := make([]byte, 0, 1+len(name)+1)
	b = append(b, recordID)
	return pushCString(b, name)
}

// SigDictPayload encodes a SIG_DICT record payload: signal:u16,
// object:u64, name:c-string.
func SigDictPayload(signal uint16, object uint64, name string) []byte {
	b := make([]byte, 0, 2+8+len(name)+1)
	b = append(b, byte(signal), byte(signal>>8))
	for i := 0; i < 8; i++ {
		b = append(b, byte(object>>(8*i)))
	}
	return pushCString(b, name)
}
