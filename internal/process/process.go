// Package process holds the scheduler's process-table record and the
// table itself. The table is owned exclusively by the scheduler's single
// goroutine; callers must not share it across goroutines without adding
// their own synchronization.
package process

import (
	"github.com/google/uuid"

	"procsched/internal/child"
)

// Level identifies an MLFQ priority level. Level 0 is highest priority.
type Level int

const (
	Level0 Level = iota
	Level1
	Level2
)

// Record is one schedulable task: the literal command line plus every
// timing and lifecycle field the scheduler tracks for it.
type Record struct {
	ID      uuid.UUID // per-run correlation id, not part of the scheduling contract
	Command string

	// Handle is set once the child has been spawned at least once.
	Handle *child.Handle

	ArrivalTime     int64
	FirstRunTime    int64
	CompletionTime  int64
	TotalCPUTimeMS  int64
	CurrentLevel    Level

	Started  bool
	Finished bool
	Error    bool
}

// TurnaroundMS is CompletionTime - ArrivalTime. Only meaningful once Finished.
func (r *Record) TurnaroundMS() int64 {
	return r.CompletionTime - r.ArrivalTime
}

// WaitingMS is max(0, turnaround - cpu time).
func (r *Record) WaitingMS() int64 {
	w := r.TurnaroundMS() - r.TotalCPUTimeMS
	if w < 0 {
		return 0
	}
	return w
}

// ResponseMS is FirstRunTime - ArrivalTime.
func (r *Record) ResponseMS() int64 {
	return r.FirstRunTime - r.ArrivalTime
}

// Table is the ordered set of process records for one discipline run.
// Index order is arrival/input order and is stable: indices are used as
// ready-queue payloads, so records are never removed or reordered, only
// appended and mutated in place.
type Table struct {
	records []*Record
}

// NewTable builds an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add appends a freshly created record and returns its table index.
func (t *Table) Add(r *Record) int {
	t.records = append(t.records, r)
	return len(t.records) - 1
}

// Get returns the record at idx.
func (t *Table) Get(idx int) *Record {
	return t.records[idx]
}

// Len is the number of records in the table, including finished ones.
func (t *Table) Len() int {
	return len(t.records)
}

// All returns the records in table order. The slice is owned by the
// table; callers must not mutate its length.
func (t *Table) All() []*Record {
	return t.records
}

// AnyActive reports whether at least one record is not yet finished.
func (t *Table) AnyActive() bool {
	for _, r := range t.records {
		if !r.Finished {
			return true
		}
	}
	return false
}
