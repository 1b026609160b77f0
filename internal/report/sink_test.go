package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procsched/internal/process"
)

func TestWriteOfflineHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result_offline_FCFS")
	s := New(path, false, nil)

	records := []*process.Record{
		{Command: `echo "hi"`, Finished: true, Error: false, CompletionTime: 120, ArrivalTime: 0, FirstRunTime: 0, TotalCPUTimeMS: 120},
	}
	require.NoError(t, s.Write(records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "Command,Finished,Error,CompletionTime,Turnaround,Waiting,Response\n")
	assert.NotContains(t, content, "TotalCPU")
	assert.Contains(t, content, `"echo ""hi""",Yes,No,120,120,0,0`)
}

func TestWriteOnlineIncludesTotalCPUColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result_online_SJF")
	s := New(path, true, nil)

	records := []*process.Record{
		{Command: "sleep 1", Finished: true, CompletionTime: 1000, TotalCPUTimeMS: 1000},
	}
	require.NoError(t, s.Write(records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Command,Finished,Error,CompletionTime,Turnaround,Waiting,Response,TotalCPU\n")
}

func TestWriteEmptyTableProducesHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result_offline_RR")
	s := New(path, false, nil)

	require.NoError(t, s.Write(nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Command,Finished,Error,CompletionTime,Turnaround,Waiting,Response\n", string(data))
}
