package sched

import (
	"time"

	"procsched/internal/child"
	"procsched/internal/process"
	"procsched/internal/queue"
)

// RunRR runs every command under fixed-quantum preemptive rotation.
// Each slice sleeps for at most quantumMS, polling for completion every
// pollInterval so a task that finishes early doesn't block the rest of
// the quantum.
func (e *Engine) RunRR(commands []string, quantumMS int64) *process.Table {
	tbl := process.NewTable()
	q := queue.NewFIFO()
	for _, cmdStr := range commands {
		r := e.newRecord(cmdStr)
		q.PushBack(tbl.Add(r))
	}

	for !q.Empty() {
		idx, _ := q.PopFront()
		r := tbl.Get(idx)
		if r.Finished {
			// Defensive: should never happen given the Gone-is-finished
			// rule below, but guards against re-queueing a completed
			// task if a future change introduces one.
			continue
		}

		if r.Handle == nil {
			if !e.spawnOffline(r) {
				continue
			}
			r.Started = true
			r.FirstRunTime = e.Clock.NowMS()
		}
		if err := e.Child.Cont(r.Handle); err != nil {
			e.Log.Warnw("continue failed", "id", r.ID, "command", r.Command, "err", err)
		}

		sliceStart := e.Clock.NowMS()
		res := e.pollUpTo(r.Handle, quantumMS)
		sliceMS := e.Clock.NowMS() - sliceStart

		switch res.Status {
		case child.StillRunning:
			if err := e.Child.Stop(r.Handle); err != nil {
				e.Log.Warnw("stop failed", "id", r.ID, "command", r.Command, "err", err)
			}
			r.TotalCPUTimeMS += sliceMS
			q.PushBack(idx)
		default:
			// Exited, Signaled, or Gone: all treated as finished. A Gone
			// result here is never re-queued, the safer of the two
			// behaviors the original source mixed together.
			e.markFromReap(r, res, sliceMS)
			e.Log.Infow("rr completed", "id", r.ID, "command", r.Command, "error", r.Error)
		}
	}

	return tbl
}

// pollUpTo polls h's reap status every pollInterval until it stops
// StillRunning or budgetMS elapses, whichever comes first.
func (e *Engine) pollUpTo(h *child.Handle, budgetMS int64) child.ReapResult {
	deadline := time.Now().Add(time.Duration(budgetMS) * time.Millisecond)
	for {
		res := e.Child.TryReap(h)
		if res.Status != child.StillRunning {
			return res
		}
		if time.Now().After(deadline) {
			return res
		}
		time.Sleep(pollInterval)
	}
}
