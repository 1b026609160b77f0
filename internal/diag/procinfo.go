// Package diag reads supplementary process information from /proc for
// a single process and renders a human-readable snapshot, exposed as a
// standalone ad-hoc lookup rather than a signal handler: the scheduler
// never hands a caller a live, in-progress process table mid-run, so
// a pid is looked up directly from /proc instead.
package diag

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"procsched/internal/process"
)

// Info holds the subset of /proc/[pid]/* data worth surfacing for a
// scheduled task: enough to tell "is this actually running, and what is
// it doing" without dumping full memory maps into a terminal.
type Info struct {
	PID     int
	Name    string
	State   string
	Threads int
	VmRSSKB int64
	FDCount int
}

// Read gathers Info for pid. Returns an error if the process is gone by
// the time we look (a natural race with the scheduler's own reaping,
// not a scheduler-internal error).
func Read(pid int) (*Info, error) {
	procPath := fmt.Sprintf("/proc/%d", pid)
	if _, err := os.Stat(procPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("diag: process %d does not exist", pid)
	}

	info := &Info{PID: pid}
	if err := info.readStatus(procPath); err != nil {
		return nil, err
	}
	info.FDCount = countFDs(procPath)
	return info, nil
}

func (info *Info) readStatus(procPath string) error {
	data, err := os.ReadFile(filepath.Join(procPath, "status"))
	if err != nil {
		return err
	}
	for _, line := range strings.Split(string(data), "\n") {
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "Name":
			info.Name = val
		case "State":
			info.State = val
		case "Threads":
			info.Threads, _ = strconv.Atoi(val)
		case "VmRSS":
			if fields := strings.Fields(val); len(fields) > 0 {
				info.VmRSSKB, _ = strconv.ParseInt(fields[0], 10, 64)
			}
		}
	}
	return nil
}

func countFDs(procPath string) int {
	entries, err := os.ReadDir(filepath.Join(procPath, "fd"))
	if err != nil {
		return 0
	}
	return len(entries)
}

func (info *Info) String() string {
	return fmt.Sprintf("pid=%d name=%s state=%s threads=%d rss=%dkB fds=%d",
		info.PID, info.Name, info.State, info.Threads, info.VmRSSKB, info.FDCount)
}

// Dump renders a one-line-per-task snapshot of tbl, with live /proc
// detail for any task that currently has a running child. It never
// returns an error: a task whose /proc entry vanished mid-read (it just
// finished) is reported as such rather than failing the whole dump.
func Dump(tbl *process.Table) string {
	var b strings.Builder
	for i, r := range tbl.All() {
		fmt.Fprintf(&b, "[%d] %q started=%v finished=%v error=%v level=%d",
			i, r.Command, r.Started, r.Finished, r.Error, r.CurrentLevel)
		if !r.Finished && r.Handle != nil && r.Handle.PID() != 0 {
			if info, err := Read(r.Handle.PID()); err == nil {
				fmt.Fprintf(&b, " (%s)", info)
			} else {
				fmt.Fprintf(&b, " (pid vanished: %v)", err)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
