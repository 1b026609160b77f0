package ingest

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newPipe(t *testing.T) (*io.PipeReader, *io.PipeWriter) {
	t.Helper()
	pr, pw := io.Pipe()
	return pr, pw
}

func TestDrainAvailableSkipsEmptyLinesAndStripsCR(t *testing.T) {
	r := strings.NewReader("echo one\r\n\n\necho two\n")
	ing := New(r, nil)

	var cmds []string
	var closed bool
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		got, c := ing.DrainAvailable()
		cmds = append(cmds, got...)
		if c {
			closed = true
			break
		}
		time.Sleep(time.Millisecond)
	}

	assert.True(t, closed)
	assert.Equal(t, []string{"echo one", "echo two"}, cmds)
}

func TestDrainAvailableNonBlockingWhenNothingBuffered(t *testing.T) {
	pr, pw := newPipe(t)
	defer pw.Close()
	ing := New(pr, nil)

	start := time.Now()
	cmds, closed := ing.DrainAvailable()
	assert.Less(t, time.Since(start), 50*time.Millisecond)
	assert.Empty(t, cmds)
	assert.False(t, closed)
}

func TestLinesChannelUsableForBlockingSelect(t *testing.T) {
	pr, pw := newPipe(t)
	ing := New(pr, nil)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = pw.Write([]byte("/bin/echo hi\n"))
	}()

	select {
	case line, ok := <-ing.Lines():
		assert.True(t, ok)
		assert.Equal(t, "/bin/echo hi", line)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for line arrival")
	}
	pw.Close()
}
