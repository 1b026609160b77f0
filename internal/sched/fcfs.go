package sched

import (
	"procsched/internal/child"
	"procsched/internal/process"
)

// RunFCFS runs every command in commands to completion, strictly in
// input order, with no preemption: spawn, continue, blocking-wait,
// record metrics, move to the next.
//
// Grounded on original_source/Offline_scheduler.h's FCFS: fork/execvp,
// waitpid (blocking), turnaround/waiting/response derived the same way.
// For FCFS, total_cpu_time is treated as the full turnaround since no
// other task ever runs concurrently with it.
func (e *Engine) RunFCFS(commands []string) *process.Table {
	tbl := process.NewTable()
	for _, cmdStr := range commands {
		tbl.Add(e.newRecord(cmdStr))
	}

	for _, r := range tbl.All() {
		if !e.spawnOffline(r) {
			continue
		}
		r.Started = true
		r.FirstRunTime = e.Clock.NowMS()

		if err := e.Child.Cont(r.Handle); err != nil {
			e.Log.Warnw("continue failed", "id", r.ID, "command", r.Command, "err", err)
		}

		res := e.Child.Wait(r.Handle)
		r.CompletionTime = e.Clock.NowMS()
		r.Finished = true
		r.Error = res.Status != child.Exited || res.ExitCode != 0
		// total_cpu_time is the full turnaround for FCFS: no other task
		// runs concurrently, so the whole span is charged.
		r.TotalCPUTimeMS = r.TurnaroundMS()
		if !r.Error {
			e.History.Record(r.Command, float64(r.TotalCPUTimeMS))
		}

		e.Log.Infow("fcfs completed", "id", r.ID, "command", r.Command, "error", r.Error, "turnaround_ms", r.TurnaroundMS())
	}

	return tbl
}
