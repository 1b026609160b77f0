// Package cmdline turns a raw command-line string into something
// exec.Command can run, either as a direct argv (offline) or as a
// shell invocation (online).
package cmdline

import (
	"errors"
	"strings"
)

// ErrEmptyCommand is returned when a command string has no tokens.
var ErrEmptyCommand = errors.New("cmdline: empty command")

// Argv splits cmd on whitespace into an argument vector for direct
// execution. The first token is the executable, resolved later via the
// usual PATH lookup exec.Command performs.
func Argv(cmd string) ([]string, error) {
	tokens := strings.Fields(cmd)
	if len(tokens) == 0 {
		return nil, ErrEmptyCommand
	}
	return tokens, nil
}

// ShellArgs wraps cmd for execution under /bin/sh -c, so pipes,
// redirections, and quoting in user-supplied input work as expected.
// It does not validate cmd beyond requiring it be non-blank, since a
// shell is tolerant of most input that a bare argv split is not.
func ShellArgs(cmd string) ([]string, error) {
	if strings.TrimSpace(cmd) == "" {
		return nil, ErrEmptyCommand
	}
	return []string{"/bin/sh", "-c", cmd}, nil
}
