package posix

import "sync"

// Waker lets one goroutine block in Wait until another calls Wake, without
// a busy-poll. The underlying primitive is platform-specific (createWakeFd
// returns an eventfd on Linux, a self-pipe on Darwin, and a buffered-channel
// stand-in on other platforms); Waker itself is the platform-agnostic API.
type Waker struct {
	mu      sync.Mutex
	readFd  int
	writeFd int
	closed  bool
}

// NewWaker constructs a Waker backed by the platform's fastest available
// wake primitive.
func NewWaker() (*Waker, error) {
	r, w, err := createWakeFd()
	if err != nil {
		return nil, err
	}
	return &Waker{readFd: r, writeFd: w}, nil
}

// Wake signals any goroutine blocked in Wait. It is safe to call from any
// goroutine, including a signal handler's equivalent (an ISR thunk on
// bare-metal targets); multiple Wake calls before a Wait are coalesced.
func (w *Waker) Wake() error {
	w.mu.Lock()
	closed := w.closed
	fd := w.writeFd
	w.mu.Unlock()
	if closed {
		return nil
	}
	return writeWakeByte(fd)
}

// Wait blocks until Wake has been called at least once since the last
// Wait returned, then drains the primitive so the next Wait blocks again.
func (w *Waker) Wait() error {
	w.mu.Lock()
	fd := w.readFd
	w.mu.Unlock()
	return readWakeByte(fd)
}

// Close releases the underlying file descriptor(s). After Close, Wake
// becomes a no-op and Wait's behavior is platform-defined (typically
// returns promptly with an error); callers should not call Wait after
// Close.
func (w *Waker) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	r, wr := w.readFd, w.writeFd
	w.mu.Unlock()
	return closeWakeFd(r, wr)
}
