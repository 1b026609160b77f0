package child

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// TestSpawnSuspendedOnlineDoesNotRunUntilContinued exercises the
// self-stop-then-exec idiom directly: the child should not have exited
// until Cont is called, demonstrating that it genuinely blocked
// itself before exec-ing into the real command.
func TestSpawnSuspendedOnlineDoesNotRunUntilContinued(t *testing.T) {
	c := New(nil)
	h, err := c.SpawnSuspendedOnline("true")
	require.NoError(t, err)

	// Give the shell time to self-stop; it should still be StillRunning
	// (stopped processes are not reported by a plain WNOHANG wait).
	time.Sleep(50 * time.Millisecond)
	res := c.TryReap(h)
	assert.Equal(t, StillRunning, res.Status)

	require.NoError(t, c.Cont(h))

	deadline := time.Now().Add(2 * time.Second)
	var final ReapResult
	for time.Now().Before(deadline) {
		final = c.TryReap(h)
		if final.Status != StillRunning {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, Exited, final.Status)
	assert.True(t, final.Success())
}

// TestTryReapOnAlreadyReapedIsGone checks the zombie-reaping property:
// once a child has been reaped, asking again must report Gone, never
// block, and never error out to the caller.
func TestTryReapOnAlreadyReapedIsGone(t *testing.T) {
	c := New(nil)
	h, err := c.SpawnSuspendedOffline([]string{"true"})
	require.NoError(t, err)
	require.NoError(t, c.Cont(h))

	deadline := time.Now().Add(2 * time.Second)
	var first ReapResult
	for time.Now().Before(deadline) {
		first = c.TryReap(h)
		if first.Status != StillRunning {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, Exited, first.Status)

	second := c.TryReap(h)
	assert.Equal(t, Gone, second.Status)
}

func TestNonZeroExitClassifiedAsError(t *testing.T) {
	c := New(nil)
	h, err := c.SpawnSuspendedOffline([]string{"false"})
	require.NoError(t, err)
	require.NoError(t, c.Cont(h))

	deadline := time.Now().Add(2 * time.Second)
	var res ReapResult
	for time.Now().Before(deadline) {
		res = c.TryReap(h)
		if res.Status != StillRunning {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, Exited, res.Status)
	assert.NotEqual(t, 0, res.ExitCode)
	assert.False(t, res.Success())
}

func TestSignalTargetsProcessGroup(t *testing.T) {
	c := New(nil)
	h, err := c.SpawnSuspendedOffline([]string{"sleep", "5"})
	require.NoError(t, err)
	require.NoError(t, c.Cont(h))
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, c.Signal(h, unix.SIGKILL))

	deadline := time.Now().Add(2 * time.Second)
	var res ReapResult
	for time.Now().Before(deadline) {
		res = c.TryReap(h)
		if res.Status != StillRunning {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, Signaled, res.Status)
}
