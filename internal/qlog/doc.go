// Package qlog is the ambient structured-logging adapter shared by the
// qpkernel packages. It wraps a logiface.Logger[*stumpy.Event] (the same
// pairing used throughout the examples this module is built from) behind a
// small, allocation-light, key/value Logger type so that qf, qv, qk, qxk,
// and qs need not import logiface or stumpy directly.
package qlog
