// Package sched implements the five scheduling disciplines: FCFS,
// Round-Robin, offline MLFQ, and the two online variants (SJF, MLFQ)
// fed by a live command stream. All five share the same substrate: a
// child.Controller for process lifecycle, a history.Store for burst
// estimation, and a clock.Clock for relative timestamps.
//
// The event-driven online variants follow a select-loop shape; the
// discipline semantics themselves follow original_source/Offline_scheduler.h
// and Online_scheduler.h.
package sched

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"procsched/internal/child"
	"procsched/internal/clock"
	"procsched/internal/cmdline"
	"procsched/internal/history"
	"procsched/internal/ingest"
	"procsched/internal/process"
)

// pollInterval is how often RR and offline MLFQ poll try_reap while a
// quantum is in flight (the online engines poll at their own, coarser
// granularities). It is deliberately much finer than any quantum so
// completion is observed promptly without busy-spinning.
const pollInterval = 1 * time.Millisecond

// Engine bundles the substrate every discipline needs. One Engine, and
// everything reachable from it, is used from a single goroutine only:
// no locking anywhere in this package.
type Engine struct {
	Clock   *clock.Clock
	Child   *child.Controller
	History *history.Store
	Log     *zap.SugaredLogger
}

// New builds an Engine. log may be nil to discard log lines.
func New(c *clock.Clock, ctrl *child.Controller, hist *history.Store, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{Clock: c, Child: ctrl, History: hist, Log: log}
}

// newRecord creates a process.Record for cmd, arriving "now".
func (e *Engine) newRecord(cmd string) *process.Record {
	return &process.Record{
		ID:          uuid.New(),
		Command:     cmd,
		ArrivalTime: e.Clock.NowMS(),
	}
}

// spawnOffline tokenizes cmd and spawns it suspended, directly (no
// shell). A tokenization failure marks the record finished+error
// immediately rather than propagating an error out of the scheduler:
// no child/spawn error ever escapes the scheduler loop.
func (e *Engine) spawnOffline(r *process.Record) bool {
	argv, err := cmdline.Argv(r.Command)
	if err != nil {
		e.failSpawn(r, err)
		return false
	}
	h, err := e.Child.SpawnSuspendedOffline(argv)
	if err != nil {
		e.failSpawn(r, err)
		return false
	}
	r.Handle = h
	return true
}

// spawnOnline spawns cmd under the self-stop-then-exec shell wrapper.
func (e *Engine) spawnOnline(r *process.Record) bool {
	h, err := e.Child.SpawnSuspendedOnline(r.Command)
	if err != nil {
		e.failSpawn(r, err)
		return false
	}
	r.Handle = h
	return true
}

func (e *Engine) failSpawn(r *process.Record, err error) {
	e.Log.Warnw("spawn failed", "id", r.ID, "command", r.Command, "err", err)
	r.Started = true
	r.Finished = true
	r.Error = true
	r.CompletionTime = e.Clock.NowMS()
}

// markFromReap applies a terminal reap result (Exited, Signaled, or
// Gone) to r. slice is the wall-clock length of the run that just ended,
// charged to TotalCPUTimeMS and, on a clean success, recorded as a new
// burst sample for the command's history: a failed run never pollutes
// the estimator, and the sample recorded is the observed slice length,
// not the accumulated total.
func (e *Engine) markFromReap(r *process.Record, res child.ReapResult, sliceMS int64) {
	r.TotalCPUTimeMS += sliceMS
	r.Finished = true
	r.CompletionTime = e.Clock.NowMS()
	switch res.Status {
	case child.Exited:
		r.Error = res.ExitCode != 0
	case child.Signaled:
		r.Error = true
	case child.Gone:
		// Unknown status: treated as error.
		r.Error = true
	default:
		r.Error = true
	}
	if !r.Error {
		e.History.Record(r.Command, float64(sliceMS))
	}
}

// estimateBurstMS returns the burst estimate for cmd: mean of the last k
// history samples if any exist, else a default of 1000ms.
func (e *Engine) estimateBurstMS(cmd string, k int) int64 {
	if mean, ok := e.History.MeanLastK(cmd, k); ok {
		return int64(mean)
	}
	return 1000
}

// ingestNew drains every line currently available from ing, turning each
// into a process.Record appended to tbl and spawned suspended. Returns
// the indices of freshly-ingested records and whether the input has
// closed for good.
func (e *Engine) ingestNew(ing *ingest.Ingester, tbl *process.Table) (newIdx []int, closed bool) {
	lines, closed := ing.DrainAvailable()
	for _, line := range lines {
		newIdx = append(newIdx, e.ingestLine(line, tbl))
	}
	return newIdx, closed
}

// ingestLine turns one already-received command line into a
// process.Record appended to tbl and spawned suspended, returning its
// table index. Shared by ingestNew's non-blocking drain and the
// idle-wait branches that receive a line directly off ing.Lines().
func (e *Engine) ingestLine(line string, tbl *process.Table) int {
	r := e.newRecord(line)
	idx := tbl.Add(r)
	e.spawnOnline(r)
	e.Log.Debugw("ingested new command", "id", r.ID, "command", line, "idx", idx)
	return idx
}
