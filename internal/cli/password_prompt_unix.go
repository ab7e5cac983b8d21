//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func readPasswordNoEcho(stdin *os.File) ([]byte, error) {
	if stdin == nil {
		return nil, errors.New("stdin unavailable")
	}
	restore, err := disableTerminalEcho(int(stdin.Fd()))
	if err != nil {
		return nil, err
	}
	defer restore()

	return readLine(stdin)
}

// disableTerminalEcho clears ECHO on fd and returns a func restoring the
// previous terminal state.
func disableTerminalEcho(fd int) (func(), error) {
	current, err := unix.IoctlGetTermios(fd, getTermiosIoctl)
	if err != nil {
		return nil, err
	}
	saved := *current
	silent := saved
	silent.Lflag &^= unix.ECHO
	if err := unix.IoctlSetTermios(fd, setTermiosIoctl, &silent); err != nil {
		return nil, err
	}
	return func() { _ = unix.IoctlSetTermios(fd, setTermiosIoctl, &saved) }, nil
}
