package qs

import (
	"io"
	"net"
	"os"
	"sync"
)

// TraceBackend consumes complete HDLC-framed byte sequences. Implementations
// must serialize concurrent WriteFrame calls and must not reorder frames;
// Emitter calls WriteFrame while holding its own lock, so a backend that is
// only ever driven by one Emitter needs no locking of its own, but backends
// are exported so they can be reused standalone. Grounded on
// original_source/crates/qs/src/lib.rs's TraceBackend trait.
type TraceBackend interface {
	WriteFrame(frame []byte) error
}

// WriterBackend adapts any io.Writer (a file, os.Stdout, a bytes.Buffer in
// tests) into a TraceBackend, serializing writes with a mutex.
type WriterBackend struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterBackend wraps w.
func NewWriterBackend(w io.Writer) *WriterBackend {
	return &WriterBackend{w: w}
}

func (b *WriterBackend) WriteFrame(frame []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.w.Write(frame)
	return err
}

// StdoutBackend returns a backend that writes frames to os.Stdout; handy
// for early bring-up, mirroring the original's stdout_backend helper.
func StdoutBackend() *WriterBackend {
	return NewWriterBackend(os.Stdout)
}

// TCPBackend streams frames over a persistent TCP connection.
type TCPBackend struct {
	mu   sync.Mutex
	conn net.Conn
}

// DialTCPBackend connects to addr and disables Nagle's algorithm so frames
// are flushed promptly.
func DialTCPBackend(addr string) (*TCPBackend, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
	return &TCPBackend{conn: conn}, nil
}

func (b *TCPBackend) WriteFrame(frame []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.conn.Write(frame)
	return err
}

// Close closes the underlying connection.
func (b *TCPBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn.Close()
}

// UDPBackend streams frames as individual datagrams over a connected UDP
// socket (spec.md §6: "UDP datagram (one or more complete frames per
// datagram)" — this implementation sends exactly one frame per datagram,
// which is also a valid realization of that contract).
type UDPBackend struct {
	mu   sync.Mutex
	conn net.Conn
}

// DialUDPBackend binds a local UDP socket connected to addr.
func DialUDPBackend(addr string) (*UDPBackend, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}
	return &UDPBackend{conn: conn}, nil
}

func (b *UDPBackend) WriteFrame(frame []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.conn.Write(frame)
	return err
}

// Close closes the underlying socket.
func (b *UDPBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn.Close()
}

// CallbackBackend adapts a plain function into a TraceBackend, matching
// spec.md §6's "function callback fn(record_type, payload, with_timestamp)
// -> Result<(), TraceError>" transport option. Since the callback signature
// in §6 is expressed in terms of the pre-framed record rather than raw
// bytes, CallbackFrameFunc here instead receives the already-framed bytes;
// callers wanting the unframed view should build their callback backend
// around Emitter.Record directly instead of through a Scheduler/Kernel
// trace hook.
type CallbackBackend struct {
	fn func(frame []byte) error
}

// NewCallbackBackend wraps fn as a TraceBackend.
func NewCallbackBackend(fn func(frame []byte) error) *CallbackBackend {
	return &CallbackBackend{fn: fn}
}

func (b *CallbackBackend) WriteFrame(frame []byte) error {
	return b.fn(frame)
}
