package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFCFSCompletesInInputOrder(t *testing.T) {
	e := newTestEngine()
	tbl := e.RunFCFS([]string{"true", "true", "false"})

	require.Equal(t, 3, tbl.Len())
	assert.False(t, tbl.Get(0).Error)
	assert.False(t, tbl.Get(1).Error)
	assert.True(t, tbl.Get(2).Error)
	assert.LessOrEqual(t, tbl.Get(0).CompletionTime, tbl.Get(1).FirstRunTime)
	assert.LessOrEqual(t, tbl.Get(1).CompletionTime, tbl.Get(2).FirstRunTime)
}

func TestRunFCFSTotalCPUTimeEqualsTurnaround(t *testing.T) {
	e := newTestEngine()
	tbl := e.RunFCFS([]string{"true"})

	r := tbl.Get(0)
	require.True(t, r.Finished)
	assert.Equal(t, r.TurnaroundMS(), r.TotalCPUTimeMS)
}

func TestRunFCFSSkipsUnspawnableCommand(t *testing.T) {
	e := newTestEngine()
	tbl := e.RunFCFS([]string{""})

	r := tbl.Get(0)
	assert.True(t, r.Finished)
	assert.True(t, r.Error)
}
