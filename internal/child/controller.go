// Package child wraps the OS operations needed to drive a child process
// through spawn -> suspended -> running -> suspended -> reaped, addressed
// always at the process-group level so that children which fork helpers
// (shells, pipelines) are wholly controlled by a single stop/continue.
//
// Process control goes through golang.org/x/sys/unix (Wait4, Kill) the
// way canonical-pebble/internal/overlord/servstate/reaper.go does the
// same job.
package child

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"procsched/internal/cmdline"
)

// ErrNotSpawned is returned by operations that require a spawned handle.
var ErrNotSpawned = errors.New("child: process not spawned")

// ReapStatus classifies the outcome of a non-blocking reap attempt.
type ReapStatus int

const (
	StillRunning ReapStatus = iota
	Exited
	Signaled
	Gone
)

func (s ReapStatus) String() string {
	switch s {
	case StillRunning:
		return "StillRunning"
	case Exited:
		return "Exited"
	case Signaled:
		return "Signaled"
	case Gone:
		return "Gone"
	default:
		return "Unknown"
	}
}

// ReapResult is the outcome of TryReap.
type ReapResult struct {
	Status   ReapStatus
	ExitCode int // valid when Status == Exited or Signaled
}

// Success reports whether the child both finished and exited cleanly:
// true iff the child exited normally with code 0.
func (r ReapResult) Success() bool {
	return r.Status == Exited && r.ExitCode == 0
}

// Handle is the opaque identity of a spawned child: its PID, which is
// also its process-group ID since every child is spawned as its own
// group leader, so signals can always be addressed to the whole group.
type Handle struct {
	cmd  *exec.Cmd
	pid  int
	pgid int
}

// PID exposes the OS process id, mostly for logging/diagnostics.
func (h *Handle) PID() int {
	if h == nil {
		return 0
	}
	return h.pid
}

// Controller spawns and signals children. One Controller instance is
// meant to be used from the scheduler's single goroutine only; it keeps
// no internal state of its own beyond the logger, so no locking is
// required.
type Controller struct {
	log *zap.SugaredLogger
}

// New builds a Controller. log may be nil to discard log lines.
func New(log *zap.SugaredLogger) *Controller {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Controller{log: log}
}

// SpawnSuspendedOffline starts argv[0](argv[1:]...) directly (no shell)
// in a new process group, then races to stop it before it can make
// meaningful progress. This is the "parent sends a stop signal after
// fork and before continue" approach, needed for offline mode where
// argv must be executed directly rather than through a shell wrapper
// that could self-stop first.
func (c *Controller) SpawnSuspendedOffline(argv []string) (*Handle, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("child: %w", ErrNotSpawned)
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("child: spawn %q: %w", argv[0], err)
	}
	h := &Handle{cmd: cmd, pid: cmd.Process.Pid, pgid: cmd.Process.Pid}
	if err := c.Stop(h); err != nil {
		c.log.Debugw("stop-after-spawn race lost, child may have already run briefly",
			"pid", h.pid, "err", err)
	}
	c.log.Debugw("spawned suspended (offline)", "pid", h.pid, "argv", argv)
	return h, nil
}

// SpawnSuspendedOnline starts cmdLine under /bin/sh -c, but with the
// shell told to stop itself (raise SIGSTOP) before exec-ing into the
// real command line. This is the self-stop-then-exec idiom: one process,
// one exec, no race window where the child could run before the
// scheduler chooses it.
func (c *Controller) SpawnSuspendedOnline(cmdLine string) (*Handle, error) {
	if _, err := cmdline.ShellArgs(cmdLine); err != nil {
		return nil, fmt.Errorf("child: %w", err)
	}
	wrapped := "kill -STOP $$; exec " + cmdLine
	cmd := exec.Command("/bin/sh", "-c", wrapped)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("child: spawn %q: %w", cmdLine, err)
	}
	h := &Handle{cmd: cmd, pid: cmd.Process.Pid, pgid: cmd.Process.Pid}
	c.log.Debugw("spawned suspended (online, self-stop)", "pid", h.pid, "cmd", cmdLine)
	return h, nil
}

// Cont resumes a stopped child, delivered to its process group so
// shell-invoked children (and anything they've forked) receive it.
// Any kill error, including one for a group that has already exited, is
// returned; the scheduling loops log it and proceed.
func (c *Controller) Cont(h *Handle) error {
	if h == nil {
		return ErrNotSpawned
	}
	if err := unix.Kill(-h.pgid, unix.SIGCONT); err != nil {
		return fmt.Errorf("child: cont pgid=%d: %w", h.pgid, err)
	}
	return nil
}

// Stop suspends a running child (its whole process group).
func (c *Controller) Stop(h *Handle) error {
	if h == nil {
		return ErrNotSpawned
	}
	if err := unix.Kill(-h.pgid, unix.SIGSTOP); err != nil {
		return fmt.Errorf("child: stop pgid=%d: %w", h.pgid, err)
	}
	return nil
}

// Signal delivers an arbitrary signal to the child's process group.
// None of the scheduling disciplines call it; they use Cont and Stop.
func (c *Controller) Signal(h *Handle, sig unix.Signal) error {
	if h == nil {
		return ErrNotSpawned
	}
	return unix.Kill(-h.pgid, sig)
}

// Wait blocks until h's child exits, for disciplines that run a single
// child to completion before considering the next one (FCFS).
func (c *Controller) Wait(h *Handle) ReapResult {
	if h == nil || h.cmd == nil {
		return ReapResult{Status: Gone}
	}
	err := h.cmd.Wait()
	ps := h.cmd.ProcessState
	if ps == nil {
		return ReapResult{Status: Gone}
	}
	if ps.Success() {
		return ReapResult{Status: Exited, ExitCode: 0}
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return ReapResult{Status: Signaled, ExitCode: 128 + int(ws.Signal())}
		}
		return ReapResult{Status: Exited, ExitCode: exitErr.ExitCode()}
	}
	return ReapResult{Status: Gone}
}

// TryReap performs a non-blocking wait4(WNOHANG) on h's pid. It never
// blocks. A Gone result means the child was already reaped (e.g. by a
// previous TryReap) or never existed under this pid anymore.
func (c *Controller) TryReap(h *Handle) ReapResult {
	if h == nil {
		return ReapResult{Status: Gone}
	}
	var ws unix.WaitStatus
	pid, err := unix.Wait4(h.pid, &ws, unix.WNOHANG, nil)
	switch {
	case err != nil:
		// ECHILD: no such child (already reaped by someone else, or
		// never existed). Any other errno is treated the same way: Gone
		// means "no longer ours to wait on".
		return ReapResult{Status: Gone}
	case pid == 0:
		return ReapResult{Status: StillRunning}
	case ws.Exited():
		return ReapResult{Status: Exited, ExitCode: ws.ExitStatus()}
	case ws.Signaled():
		return ReapResult{Status: Signaled, ExitCode: 128 + int(ws.Signal())}
	default:
		// Stopped/continued notifications can't appear here since we
		// don't pass WUNTRACED/WCONTINUED, but guard anyway.
		return ReapResult{Status: StillRunning}
	}
}
