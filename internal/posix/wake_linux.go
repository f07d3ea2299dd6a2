//go:build linux

package posix

import "golang.org/x/sys/unix"

// createWakeFd opens a Linux eventfd: a single fd that is both the read and
// write end, coalescing repeated writes into one pending readiness. The fd
// is left in blocking mode so readWakeByte can block directly on it without
// a separate poll/select step.
// Grounded on eventloop/wakeup_linux.go's createWakeFd.
func createWakeFd() (readFd, writeFd int, err error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC)
	if err != nil {
		return -1, -1, err
	}
	return fd, fd, nil
}

// writeWakeByte posts one wake-up to the eventfd counter.
func writeWakeByte(fd int) error {
	var buf [8]byte
	buf[0] = 1
	_, err := unix.Write(fd, buf[:])
	return err
}

// readWakeByte blocks until the eventfd counter is non-zero, then drains it
// back to zero (eventfd semantics: a read returns the counter value and
// resets it).
func readWakeByte(fd int) error {
	var buf [8]byte
	_, err := unix.Read(fd, buf[:])
	return err
}

// closeWakeFd closes the single eventfd shared by both ends.
func closeWakeFd(readFd, writeFd int) error {
	return unix.Close(readFd)
}
