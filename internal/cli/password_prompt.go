package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// promptPassword reads one line from stdin with echo disabled. When stdin is
// not a terminal (a pipe in scripts) the line is read as-is.
func promptPassword(label string, stdin *os.File, out io.Writer) (string, error) {
	fmt.Fprint(out, label)
	secret, err := readPasswordNoEcho(stdin)
	fmt.Fprintln(out)
	if err == nil {
		return string(secret), nil
	}
	if stdin == nil {
		return "", err
	}
	line, err := readLine(stdin)
	return string(line), err
}

// readLine consumes bytes up to and including the next newline. It reads one
// byte at a time so consecutive prompts can share the same stdin.
func readLine(reader io.Reader) ([]byte, error) {
	var line []byte
	buffer := make([]byte, 1)
	for {
		n, err := reader.Read(buffer)
		if n == 1 {
			if buffer[0] == '\n' {
				break
			}
			line = append(line, buffer[0])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return []byte(strings.TrimRight(string(line), "\r")), nil
}
