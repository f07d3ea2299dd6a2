package qlog

import (
	"fmt"
	"io"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is a thin adapter over a logiface.Logger[*stumpy.Event], exposing
// Debug/Info/Warn/Error calls that take a message plus alternating
// key/value pairs, in the style the kernel and schedulers use for their
// own diagnostics (as distinct from the bit-exact QS trace stream, which
// is emitted separately through the Tracer interfaces).
type Logger struct {
	l *logiface.Logger[*stumpy.Event]
}

// New wraps an already-configured logiface logger.
func New(l *logiface.Logger[*stumpy.Event]) Logger {
	return Logger{l: l}
}

// Default returns a Logger writing newline-delimited JSON to os.Stderr,
// using stumpy's default field names.
func Default() Logger {
	return NewWriter(nil)
}

// NewWriter returns a Logger writing newline-delimited JSON to w, or to
// os.Stderr if w is nil.
func NewWriter(w io.Writer) Logger {
	var opts []stumpy.Option
	if w != nil {
		opts = append(opts, stumpy.WithWriter(w))
	}
	return Logger{l: stumpy.L.New(stumpy.L.WithStumpy(opts...))}
}

// Discard returns a Logger whose output goes to io.Discard, so nothing is
// ever written.
func Discard() Logger {
	return Logger{l: stumpy.L.New(stumpy.L.WithStumpy(stumpy.WithWriter(io.Discard)))}
}

func (l Logger) Debug(msg string, kv ...any) { l.emit(l.build(logiface.LevelDebug), msg, kv) }
func (l Logger) Info(msg string, kv ...any)  { l.emit(l.build(logiface.LevelInformational), msg, kv) }
func (l Logger) Warn(msg string, kv ...any)  { l.emit(l.build(logiface.LevelWarning), msg, kv) }
func (l Logger) Error(msg string, kv ...any) { l.emit(l.build(logiface.LevelError), msg, kv) }

func (l Logger) build(level logiface.Level) *logiface.Builder[*stumpy.Event] {
	if l.l == nil {
		return nil
	}
	return l.l.Build(level)
}

// emit appends kv (interpreted as alternating string keys and values of a
// handful of common types) to b and logs msg. Unrecognized value types fall
// back to their fmt.Sprint rendering rather than being dropped.
func (l Logger) emit(b *logiface.Builder[*stumpy.Event], msg string, kv []any) {
	if b == nil || !b.Enabled() {
		return
	}
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		switch v := kv[i+1].(type) {
		case string:
			b = b.Str(key, v)
		case error:
			b = b.Err(v)
		case bool:
			b = b.Bool(key, v)
		case int:
			b = b.Int(key, v)
		case int64:
			b = b.Int64(key, v)
		case uint8:
			b = b.Uint64(key, uint64(v))
		case uint16:
			b = b.Uint64(key, uint64(v))
		case uint64:
			b = b.Uint64(key, v)
		default:
			b = b.Str(key, fmt.Sprint(v))
		}
	}
	b.Log(msg)
}
