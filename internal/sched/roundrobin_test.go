package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procsched/internal/child"
	"procsched/internal/clock"
	"procsched/internal/history"
)

func newTestEngine() *Engine {
	return New(clock.New(), child.New(nil), history.NewStore(), nil)
}

func TestRunRRCompletesAllProcesses(t *testing.T) {
	e := newTestEngine()
	tbl := e.RunRR([]string{"true", "true", "true"}, 20)

	require.Equal(t, 3, tbl.Len())
	for _, r := range tbl.All() {
		assert.True(t, r.Finished)
		assert.False(t, r.Error)
	}
}

func TestRunRRRotatesLongRunningTasksFairly(t *testing.T) {
	e := newTestEngine()
	// Each sleep runs comfortably longer than one quantum, forcing at
	// least one preemption cycle per task.
	tbl := e.RunRR([]string{"sleep 0.05", "sleep 0.05"}, 10)

	require.Equal(t, 2, tbl.Len())
	for _, r := range tbl.All() {
		assert.True(t, r.Finished)
		assert.False(t, r.Error)
		assert.Greater(t, r.TotalCPUTimeMS, int64(0))
	}
}

func TestRunRRRecordsNonZeroExitAsError(t *testing.T) {
	e := newTestEngine()
	tbl := e.RunRR([]string{"false"}, 20)

	r := tbl.Get(0)
	assert.True(t, r.Finished)
	assert.True(t, r.Error)
}

func TestRunRRSkipsUnspawnableCommand(t *testing.T) {
	e := newTestEngine()
	tbl := e.RunRR([]string{""}, 20)

	r := tbl.Get(0)
	assert.True(t, r.Finished)
	assert.True(t, r.Error)
}
