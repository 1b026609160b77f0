// Package ingest reads commands arriving on an input source (normally
// stdin) one per line and makes them available to the scheduler as a
// channel of strings, without ever blocking the scheduler's own loop.
//
// Grounded on original_source/Online_scheduler.h's
// poll_and_enqueue_new_commands: a static leftover buffer fed by
// non-blocking reads, split on '\n', empty lines skipped, partial
// trailing lines preserved for the next call. The Go-idiomatic shape of
// "non-blocking reader feeding a consumer loop" is a goroutine plus a
// channel rather than raw fcntl(O_NONBLOCK) on fd 0.
package ingest

import (
	"bufio"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Ingester line-scans r in its own goroutine and makes each non-empty
// line available on Lines(). Lines() is closed once r hits EOF or a
// read error; the scheduler keeps draining whatever's buffered after
// that but never sees new arrivals again.
type Ingester struct {
	lines chan string
	log   *zap.SugaredLogger
}

// New starts reading r in the background. r is typically os.Stdin.
func New(r io.Reader, log *zap.SugaredLogger) *Ingester {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	ing := &Ingester{
		lines: make(chan string, 256),
		log:   log,
	}
	go ing.readLoop(r)
	return ing
}

func (ing *Ingester) readLoop(r io.Reader) {
	defer close(ing.lines)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		ing.lines <- line
	}
	if err := scanner.Err(); err != nil {
		ing.log.Warnw("input reader stopped on error", "err", err)
		return
	}
	ing.log.Debugw("input closed (EOF)")
}

// Lines is the channel of command lines as they arrive. It is safe to
// range over, select on with a default case for a non-blocking drain,
// or select on without a default to block until the next arrival or
// channel close.
func (ing *Ingester) Lines() <-chan string {
	return ing.lines
}

// DrainAvailable returns every line currently buffered without
// blocking, and whether the input has been permanently closed (EOF).
// This is the direct analogue of "attempt one read, WouldBlock and EOF
// both terminate this invocation without error".
func (ing *Ingester) DrainAvailable() (cmds []string, closed bool) {
	for {
		select {
		case line, ok := <-ing.lines:
			if !ok {
				return cmds, true
			}
			cmds = append(cmds, line)
		default:
			return cmds, false
		}
	}
}
