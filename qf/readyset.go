package qf

import (
	"math/bits"
	"sync/atomic"
)

// ReadySet is a 64-bit bitmap ready set: bit p set means the active object
// at priority p has at least one pending event. Priority 0 is reserved for
// idle and is never a valid bit. Max returns the highest ready priority in
// O(1) via a leading-zero count.
//
// Cache-line padding mirrors the teacher's FastState, since ReadySet is
// mutated on the hot path of every post/dispatch.
type ReadySet struct { // betteralign:ignore
	_    [64]byte //nolint:unused
	bits atomic.Uint64
	_    [56]byte //nolint:unused
}

// Insert sets the ready bit for priority p (1..=63).
func (r *ReadySet) Insert(p uint8) {
	r.bits.Or(uint64(1) << p)
}

// Remove clears the ready bit for priority p.
func (r *ReadySet) Remove(p uint8) {
	r.bits.And(^(uint64(1) << p))
}

// Contains reports whether priority p is ready.
func (r *ReadySet) Contains(p uint8) bool {
	return r.bits.Load()&(uint64(1)<<p) != 0
}

// Max returns the highest ready priority and true, or (0, false) if the set
// is empty (the idle condition).
func (r *ReadySet) Max() (uint8, bool) {
	v := r.bits.Load()
	if v == 0 {
		return 0, false
	}
	return uint8(63 - bits.LeadingZeros64(v)), true
}

// Empty reports whether no priority is ready.
func (r *ReadySet) Empty() bool {
	return r.bits.Load() == 0
}
