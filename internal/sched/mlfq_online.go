package sched

import (
	"time"

	"procsched/internal/child"
	"procsched/internal/ingest"
	"procsched/internal/process"
	"procsched/internal/queue"
	"procsched/internal/report"
)

// mlfqOnlinePollGranularity is the poll granularity for the online
// MLFQ engine: how often a running slice checks for completion and for
// new, possibly higher-priority, arrivals.
const mlfqOnlinePollGranularity = 20 * time.Millisecond

// RunMLFQOnline runs MLFQ over a live command stream: new arrivals are
// placed by estimated burst rather than always starting at Q0, a
// running task can be preempted by a higher-priority arrival without
// demotion, and the engine idles on the input channel when there is
// truly nothing to do.
func (e *Engine) RunMLFQOnline(ing *ingest.Ingester, quanta MLFQQuanta, boostMS int64, k int, sink *report.Sink) *process.Table {
	tbl := process.NewTable()
	levels := [3]*queue.FIFO{queue.NewFIFO(), queue.NewFIFO(), queue.NewFIFO()}
	lastBoost := e.Clock.NowMS()

	for {
		_, closed, _ := e.ingestAndPlace(ing, tbl, &levels, quanta, k)

		if closed && !tbl.AnyActive() {
			return tbl
		}

		if e.Clock.NowMS()-lastBoost >= boostMS {
			levels[process.Level1].DrainInto(levels[process.Level0])
			levels[process.Level2].DrainInto(levels[process.Level0])
			lastBoost = e.Clock.NowMS()
		}

		level, idx, ok := popHighestNonEmpty(levels)
		if !ok {
			if !tbl.AnyActive() {
				// Idle: block on the channel until a new arrival (or
				// close) wakes us up. The received line is the actual
				// next command and must be placed into a level, not
				// just used as a wakeup signal.
				line, chOk := <-ing.Lines()
				if !chOk {
					if !tbl.AnyActive() {
						return tbl
					}
				} else {
					newIdx := e.ingestLine(line, tbl)
					e.placeArrival(newIdx, tbl, &levels, quanta, k)
				}
				continue
			}
			time.Sleep(pollInterval)
			continue
		}

		r := tbl.Get(idx)
		r.CurrentLevel = level
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

		sliceMS := e.onlineSliceBudget(r, level, quanta, k)
		sliceStart := e.Clock.NowMS()
		res, preempted := e.runMLFQOnlineSlice(ing, tbl, &levels, r, level, sliceMS, quanta, k)
		elapsed := e.Clock.NowMS() - sliceStart

		switch {
		case preempted:
			// No demotion: re-queued at the same level it was running at.
			r.TotalCPUTimeMS += elapsed
			levels[level].PushBack(idx)
		case res.Status == child.StillRunning:
			if err := e.Child.Stop(r.Handle); err != nil {
				e.Log.Warnw("stop failed", "id", r.ID, "command", r.Command, "err", err)
			}
			r.TotalCPUTimeMS += elapsed
			next := level
			if level < process.Level2 {
				next = level + 1
			}
			r.CurrentLevel = next
			levels[next].PushBack(idx)
		default:
			e.markFromReap(r, res, elapsed)
			e.Log.Infow("mlfq-online completed", "id", r.ID, "command", r.Command, "level", level, "error", r.Error)
			if sink != nil {
				if err := sink.Write(tbl.All()); err != nil {
					e.Log.Warnw("incremental report failed", "err", err)
				}
			}
		}
	}
}

// onlineSliceBudget computes the slice length for a task about to run
// at level: the nominal q[level], shortened to the task's remaining
// estimated work when history gives an estimate, floored at
// mlfqOnlinePollGranularity.
func (e *Engine) onlineSliceBudget(r *process.Record, level process.Level, quanta MLFQQuanta, k int) int64 {
	nominal := quanta.forLevel(level)
	if !e.History.Has(r.Command) {
		return nominal
	}
	est := e.estimateBurstMS(r.Command, k)
	remaining := est - r.TotalCPUTimeMS
	slice := remaining
	if slice > nominal {
		slice = nominal
	}
	floor := mlfqOnlinePollGranularity.Milliseconds()
	if slice < floor {
		slice = floor
	}
	return slice
}

// runMLFQOnlineSlice runs r for at most sliceMS, polling try_reap and
// the ingester every mlfqOnlinePollGranularity. If a freshly-ingested
// task lands in a queue strictly higher priority than level, the
// running child is stopped and preempted=true is returned immediately,
// slice not exhausted.
func (e *Engine) runMLFQOnlineSlice(ing *ingest.Ingester, tbl *process.Table, levels *[3]*queue.FIFO, r *process.Record, level process.Level, sliceMS int64, quanta MLFQQuanta, k int) (res child.ReapResult, preempted bool) {
	deadline := time.Now().Add(time.Duration(sliceMS) * time.Millisecond)
	tick := mlfqOnlinePollGranularity
	for {
		res = e.Child.TryReap(r.Handle)
		if res.Status != child.StillRunning {
			return res, false
		}

		_, _, any := e.ingestAndPlace(ing, tbl, levels, quanta, k)
		if any {
			if arrivedHigher(levels, level) {
				if err := e.Child.Stop(r.Handle); err != nil {
					e.Log.Warnw("preemption stop failed", "id", r.ID, "command", r.Command, "err", err)
				}
				return child.ReapResult{Status: child.StillRunning}, true
			}
		}

		if time.Now().After(deadline) {
			return child.ReapResult{Status: child.StillRunning}, false
		}
		time.Sleep(tick)
	}
}

// arrivedHigher reports whether any queue strictly above level
// currently holds a task, used to decide whether a just-placed arrival
// should preempt the task running at level.
func arrivedHigher(levels *[3]*queue.FIFO, level process.Level) bool {
	for l := process.Level0; l < level; l++ {
		if !levels[l].Empty() {
			return true
		}
	}
	return false
}

// ingestAndPlace drains available arrivals and places each into the
// level its estimated burst indicates (see placeArrival). Returns the
// lowest level any arrival landed in (only meaningful when any is
// true) and whether the input has closed.
func (e *Engine) ingestAndPlace(ing *ingest.Ingester, tbl *process.Table, levels *[3]*queue.FIFO, quanta MLFQQuanta, k int) (minLevel process.Level, closed bool, any bool) {
	newIdx, closed := e.ingestNew(ing, tbl)
	minLevel = process.Level2
	for _, idx := range newIdx {
		level := e.placeArrival(idx, tbl, levels, quanta, k)
		if level < minLevel {
			minLevel = level
		}
		any = true
	}
	return minLevel, closed, any
}

// placeArrival assigns the record at idx to the level its estimated
// burst indicates: est <= q0 -> Q0, est <= q1 -> Q1, else Q2; no
// history defaults to Q1. Returns the level it was pushed onto.
func (e *Engine) placeArrival(idx int, tbl *process.Table, levels *[3]*queue.FIFO, quanta MLFQQuanta, k int) process.Level {
	r := tbl.Get(idx)
	level := process.Level1
	if e.History.Has(r.Command) {
		est := e.estimateBurstMS(r.Command, k)
		switch {
		case est <= quanta.Q0MS:
			level = process.Level0
		case est <= quanta.Q1MS:
			level = process.Level1
		default:
			level = process.Level2
		}
	}
	r.CurrentLevel = level
	levels[level].PushBack(idx)
	return level
}
