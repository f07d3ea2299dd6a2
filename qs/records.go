package qs

// Record identifiers, bit-exact with spec.md §6's record table. Grounded on
// original_source/crates/qs/src/records.rs and predefined.rs.
const (
	RecStateEntry  = 1
	RecStateExit   = 2
	RecStateInit   = 3
	RecInitTran    = 4
	RecInternTran  = 5
	RecTran        = 6
	RecIgnored     = 7
	RecDispatch    = 8
	RecUnhandled   = 9

	RecTimeEvtArm           = 32
	RecTimeEvtAutoDisarm    = 33
	RecTimeEvtDisarmAttempt = 34
	RecTimeEvtDisarm        = 35
	RecTimeEvtPost          = 37

	RecSchedLock  = 50
	RecSchedUnlock = 51
	RecSchedNext  = 52
	RecSchedIdle  = 53

	RecSigDict     = 60
	RecObjDict     = 61
	RecFunDict     = 62
	RecUsrDict     = 63
	RecTargetInfo  = 64

	// RecUserBase is the first record type reserved for application-defined
	// user records (spec.md §6: "≥100 | user records").
	RecUserBase = 100
)

// recordHasTimestamp reports whether record type t carries the optional
// 4-byte timestamp per spec.md §6 (records marked "(no timestamp)" in the
// table are hard-wired to omit it regardless of the Emitter's
// IncludeTimestamp configuration).
func recordHasTimestamp(t uint8) bool {
	switch t {
	case RecUnhandled, RecTimeEvtAutoDisarm, RecTargetInfo:
		return false
	default:
		return true
	}
}

// RecordHasTimestamp exports recordHasTimestamp for qs/host, which must
// apply the same per-record-type timestamp rule when splitting a decoded
// frame's payload from its optional timestamp prefix.
func RecordHasTimestamp(t uint8) bool { return recordHasTimestamp(t) }
