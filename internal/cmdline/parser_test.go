package cmdline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgvSplitsOnWhitespace(t *testing.T) {
	argv, err := Argv("  /bin/echo   hello   world  ")
	require.NoError(t, err)
	assert.Equal(t, []string{"/bin/echo", "hello", "world"}, argv)
}

func TestArgvEmptyIsError(t *testing.T) {
	_, err := Argv("   ")
	assert.ErrorIs(t, err, ErrEmptyCommand)
}

func TestShellArgsWrapsWholeLine(t *testing.T) {
	argv, err := ShellArgs("echo a | grep a")
	require.NoError(t, err)
	assert.Equal(t, []string{"/bin/sh", "-c", "echo a | grep a"}, argv)
}

func TestShellArgsEmptyIsError(t *testing.T) {
	_, err := ShellArgs("   ")
	assert.ErrorIs(t, err, ErrEmptyCommand)
}
