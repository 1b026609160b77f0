package sched

import (
	"time"

	"procsched/internal/child"
	"procsched/internal/process"
	"procsched/internal/queue"
)

// MLFQQuanta holds the three per-level quanta, q0 ≤ q1 ≤ q2.
type MLFQQuanta struct {
	Q0MS, Q1MS, Q2MS int64
}

func (q MLFQQuanta) forLevel(l process.Level) int64 {
	switch l {
	case process.Level0:
		return q.Q0MS
	case process.Level1:
		return q.Q1MS
	default:
		return q.Q2MS
	}
}

// RunMLFQOffline runs commands under a three-level feedback queue with
// periodic priority boost. All processes start in Q0;
// a task that doesn't finish within its level's quantum is demoted
// (Q0->Q1->Q2, then stays at Q2); every boostMS, Q1 and Q2 drain back
// into Q0 to prevent starvation.
func (e *Engine) RunMLFQOffline(commands []string, quanta MLFQQuanta, boostMS int64) *process.Table {
	tbl := process.NewTable()
	levels := [3]*queue.FIFO{queue.NewFIFO(), queue.NewFIFO(), queue.NewFIFO()}
	for _, cmdStr := range commands {
		r := e.newRecord(cmdStr)
		idx := tbl.Add(r)
		levels[process.Level0].PushBack(idx)
	}

	lastBoost := e.Clock.NowMS()

	for tbl.AnyActive() {
		if e.Clock.NowMS()-lastBoost >= boostMS {
			levels[process.Level1].DrainInto(levels[process.Level0])
			levels[process.Level2].DrainInto(levels[process.Level0])
			lastBoost = e.Clock.NowMS()
		}

		level, idx, ok := popHighestNonEmpty(levels)
		if !ok {
			time.Sleep(pollInterval)
			continue
		}

		r := tbl.Get(idx)
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
		res := e.pollUpTo(r.Handle, quanta.forLevel(level))
		sliceMS := e.Clock.NowMS() - sliceStart

		if res.Status == child.StillRunning {
			if err := e.Child.Stop(r.Handle); err != nil {
				e.Log.Warnw("stop failed", "id", r.ID, "command", r.Command, "err", err)
			}
			r.TotalCPUTimeMS += sliceMS
			next := level
			if level < process.Level2 {
				next = level + 1
			}
			r.CurrentLevel = next
			levels[next].PushBack(idx)
			continue
		}

		e.markFromReap(r, res, sliceMS)
		e.Log.Infow("mlfq completed", "id", r.ID, "command", r.Command, "level", level, "error", r.Error)
	}

	return tbl
}

// popHighestNonEmpty returns one index from the highest-priority
// non-empty level (Q0 first), FIFO within that level.
func popHighestNonEmpty(levels [3]*queue.FIFO) (process.Level, int, bool) {
	for l := process.Level0; l <= process.Level2; l++ {
		if idx, ok := levels[l].PopFront(); ok {
			return l, idx, true
		}
	}
	return 0, 0, false
}
