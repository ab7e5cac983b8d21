//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package cli

import (
	"errors"
	"os"
)

var errNoEchoUnsupported = errors.New("no-echo input is not supported on this platform")

// Without terminal control the prompt falls back to a plain, echoed read.
func readPasswordNoEcho(_ *os.File) ([]byte, error) {
	return nil, errNoEchoUnsupported
}
