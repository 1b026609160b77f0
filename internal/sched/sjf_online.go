package sched

import (
	"time"

	"procsched/internal/child"
	"procsched/internal/ingest"
	"procsched/internal/process"
	"procsched/internal/report"
)

// burstPollInterval is how often a running SJF burst polls try_reap
// once a task has been selected to run.
const burstPollInterval = 50 * time.Millisecond

// RunSJFOnline runs shortest-job-first over a live stream of commands.
// Non-preemptive once a task is chosen: among non-finished tasks it
// picks the one with the smallest estimated burst (mean_last_k, or a
// 1000ms default with no history), ties broken by insertion order, and
// runs it to completion before selecting again. sink, if non-nil,
// receives an incremental report write after every completion.
func (e *Engine) RunSJFOnline(ing *ingest.Ingester, k int, sink *report.Sink) *process.Table {
	tbl := process.NewTable()

	for {
		_, closed := e.ingestNew(ing, tbl)

		idx, ok := e.pickShortestJob(tbl, k)
		if !ok {
			if closed && !tbl.AnyActive() {
				return tbl
			}
			if !tbl.AnyActive() {
				// Idle: block on the channel until a new arrival (or
				// close) wakes us up. The received line is the actual
				// next command, not just a wakeup signal, so it must be
				// ingested here rather than discarded.
				line, chOk := <-ing.Lines()
				if !chOk {
					return tbl
				}
				e.ingestLine(line, tbl)
				continue
			}
			time.Sleep(pollInterval)
			continue
		}

		r := tbl.Get(idx)
		if r.Handle == nil {
			if !e.spawnOnline(r) {
				continue
			}
		}
		if !r.Started {
			r.Started = true
			r.FirstRunTime = e.Clock.NowMS()
		}
		if err := e.Child.Cont(r.Handle); err != nil {
			e.Log.Warnw("continue failed", "id", r.ID, "command", r.Command, "err", err)
		}

		sliceStart := e.Clock.NowMS()
		res := e.runToCompletion(ing, tbl, r)
		sliceMS := e.Clock.NowMS() - sliceStart

		e.markFromReap(r, res, sliceMS)
		e.Log.Infow("sjf completed", "id", r.ID, "command", r.Command, "error", r.Error)

		if sink != nil {
			if err := sink.Write(tbl.All()); err != nil {
				e.Log.Warnw("incremental report failed", "err", err)
			}
		}
	}
}

// runToCompletion blocks until r's child terminates, polling try_reap
// every burstPollInterval. Arrivals are drained on the way so they're
// recorded and spawned promptly even though SJF can't preempt the
// currently-running task to act on them.
func (e *Engine) runToCompletion(ing *ingest.Ingester, tbl *process.Table, r *process.Record) child.ReapResult {
	for {
		res := e.Child.TryReap(r.Handle)
		if res.Status != child.StillRunning {
			return res
		}
		e.ingestNew(ing, tbl)
		time.Sleep(burstPollInterval)
	}
}

// pickShortestJob scans every non-finished record and returns the
// index of the one with the smallest estimated burst. Ties favor the
// lower index (insertion order), matching the linear-scan order.
func (e *Engine) pickShortestJob(tbl *process.Table, k int) (int, bool) {
	best := -1
	var bestEst int64
	for i, r := range tbl.All() {
		if r.Finished {
			continue
		}
		est := e.estimateBurstMS(r.Command, k)
		if best == -1 || est < bestEst {
			best, bestEst = i, est
		}
	}
	return best, best != -1
}
