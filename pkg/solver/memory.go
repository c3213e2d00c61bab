package solver

import (
	"slices"
)

// DefaultCapacities returns the default tabu queue capacities. Queues with
// distinct lengths remember evicted boxes over different horizons.
func DefaultCapacities() []int {
	return []int{7, 8, 9, 10}
}

// Memory is the tabu list: a fixed set of bounded FIFO queues, each entry
// holding the boxes evicted together by one move. A box is forbidden while
// any queue still holds an entry containing it.
//
// Memory is not safe for concurrent use.
type Memory struct {
	queues []fifo
	held   map[int]int // box index -> number of held entries containing it
}

type fifo struct {
	capacity int
	entries  [][]int
}

// NewMemory creates one queue per capacity. Capacities must be positive.
func NewMemory(capacities ...int) *Memory {
	m := &Memory{
		queues: make([]fifo, len(capacities)),
		held:   make(map[int]int),
	}
	for i, c := range capacities {
		m.queues[i] = fifo{capacity: c, entries: make([][]int, 0, c)}
	}
	return m
}

// Len returns the number of queues.
func (m *Memory) Len() int { return len(m.queues) }

// Push appends a copy of set to queue q, first dropping the queue's oldest
// entry if it is full.
func (m *Memory) Push(q int, set []int) {
	f := &m.queues[q]
	if len(f.entries) >= f.capacity {
		m.drop(f)
	}
	entry := slices.Clone(set)
	for _, id := range entry {
		m.held[id]++
	}
	f.entries = append(f.entries, entry)
}

// Release drops the oldest entry of every non-empty queue.
func (m *Memory) Release() {
	for i := range m.queues {
		if len(m.queues[i].entries) > 0 {
			m.drop(&m.queues[i])
		}
	}
}

func (m *Memory) drop(f *fifo) {
	for _, id := range f.entries[0] {
		if m.held[id] <= 1 {
			delete(m.held, id)
		} else {
			m.held[id]--
		}
	}
	f.entries[0] = nil
	f.entries = f.entries[1:]
}

// Forbidden reports whether box id appears in any held entry.
func (m *Memory) Forbidden(id int) bool {
	return m.held[id] > 0
}

// ForbiddenCount returns the number of distinct forbidden boxes.
func (m *Memory) ForbiddenCount() int {
	return len(m.held)
}

// Entries returns the number of entries held across all queues.
func (m *Memory) Entries() int {
	n := 0
	for _, f := range m.queues {
		n += len(f.entries)
	}
	return n
}
