package qf

// LockToken is the opaque result of SchedulerLock.Lock, passed back to
// Unlock. A zero-value LockToken (locked == false) indicates the lock call
// was a no-op (spec.md §4.D: "Otherwise return Unlocked").
type LockToken struct {
	locked   bool
	previous uint8
}

// SchedulerLock is the priority-ceiling lock: while the ceiling is C, no
// active object with priority <= C may be dispatched. It is guarded by the
// owning Kernel's mutex; SchedulerLock itself holds no lock of its own.
type SchedulerLock struct {
	ceiling uint8
}

// Ceiling returns the current lock ceiling (0 = unlocked).
func (l *SchedulerLock) Ceiling() uint8 {
	return l.ceiling
}

// Lock raises the ceiling to ceiling if it is higher than the current one,
// returning a token that records the previous ceiling for Unlock. If
// ceiling does not raise the current one, Lock is a no-op and returns a
// zero LockToken.
func (l *SchedulerLock) Lock(ceiling uint8) LockToken {
	if ceiling <= l.ceiling {
		return LockToken{}
	}
	prev := l.ceiling
	l.ceiling = ceiling
	return LockToken{locked: true, previous: prev}
}

// Unlock restores the ceiling recorded in token, if the token represents an
// actual lock (otherwise it is a no-op, matching a Lock call that did not
// raise the ceiling).
func (l *SchedulerLock) Unlock(token LockToken) {
	if !token.locked {
		return
	}
	l.ceiling = token.previous
}
