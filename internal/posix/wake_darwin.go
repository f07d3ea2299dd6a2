//go:build darwin

package posix

import "golang.org/x/sys/unix"

// createWakeFd opens a self-pipe: Darwin has no eventfd, so a blocking pipe
// stands in for it — a single byte written to the write end wakes a reader
// blocked on the read end. Grounded on eventloop/wakeup_darwin.go's
// createWakeFd.
func createWakeFd() (readFd, writeFd int, err error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return -1, -1, err
	}
	return fds[0], fds[1], nil
}

// writeWakeByte posts a single byte to the pipe's write end.
func writeWakeByte(fd int) error {
	_, err := unix.Write(fd, []byte{1})
	return err
}

// readWakeByte blocks until at least one byte is available, then drains
// everything currently buffered so repeated Wake calls before a Wait
// coalesce into a single wake-up.
func readWakeByte(fd int) error {
	var buf [1]byte
	if _, err := unix.Read(fd, buf[:]); err != nil {
		return err
	}
	return drainNonBlocking(fd)
}

func drainNonBlocking(fd int) error {
	if err := unix.SetNonblock(fd, true); err != nil {
		return err
	}
	defer func() { _ = unix.SetNonblock(fd, false) }()
	var buf [64]byte
	for {
		_, err := unix.Read(fd, buf[:])
		if err != nil {
			return nil
		}
	}
}

// closeWakeFd closes both pipe ends.
func closeWakeFd(readFd, writeFd int) error {
	_ = unix.Close(writeFd)
	return unix.Close(readFd)
}
