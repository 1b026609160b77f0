// Package queue provides the FIFO ready structure shared by Round-Robin
// (one instance) and MLFQ (one instance per level). SJF needs no queue
// at all, since it linear-scans the process table directly, so it
// isn't modelled here.
package queue

// FIFO is a simple queue of process-table indices. A process is never
// present in more than one FIFO at a time; that invariant is the
// caller's responsibility, not enforced here.
type FIFO struct {
	items []int
}

// NewFIFO builds an empty queue, optionally pre-seeded with items in
// the given order (used to seed RR/MLFQ level 0 with all processes in
// input order at startup).
func NewFIFO(seed ...int) *FIFO {
	f := &FIFO{}
	f.items = append(f.items, seed...)
	return f
}

// PushBack enqueues idx at the tail.
func (f *FIFO) PushBack(idx int) {
	f.items = append(f.items, idx)
}

// PopFront dequeues and returns the head index. ok is false if empty.
func (f *FIFO) PopFront() (idx int, ok bool) {
	if len(f.items) == 0 {
		return 0, false
	}
	idx = f.items[0]
	f.items = f.items[1:]
	return idx, true
}

// Empty reports whether the queue has no pending indices.
func (f *FIFO) Empty() bool {
	return len(f.items) == 0
}

// Len returns the number of pending indices.
func (f *FIFO) Len() int {
	return len(f.items)
}

// DrainInto pops every item from f and pushes it onto dst, preserving
// order. Used for priority boosts (drain Q1/Q2 into Q0).
func (f *FIFO) DrainInto(dst *FIFO) {
	dst.items = append(dst.items, f.items...)
	f.items = f.items[:0]
}
