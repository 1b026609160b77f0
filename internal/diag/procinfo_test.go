package diag

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procsched/internal/process"
)

func TestReadSelf(t *testing.T) {
	info, err := Read(os.Getpid())
	require.NoError(t, err)
	assert.NotEmpty(t, info.Name)
	assert.Greater(t, info.Threads, 0)
}

func TestReadNonexistentPID(t *testing.T) {
	_, err := Read(1<<30 - 1)
	assert.Error(t, err)
}

func TestDumpRendersOneLinePerRecordWithoutRunningChild(t *testing.T) {
	tbl := process.NewTable()
	tbl.Add(&process.Record{Command: "echo hi", Finished: true})
	tbl.Add(&process.Record{Command: "sleep 1", Finished: false})

	out := Dump(tbl)
	assert.Contains(t, out, `"echo hi"`)
	assert.Contains(t, out, `"sleep 1"`)
}
