package queue

import (
	"slices"
	"sync"
)

// Stats is a point-in-time view of a named queue.
type Stats struct {
	Name     string `json:"name"`
	Size     int    `json:"size"`
	Capacity int    `json:"capacity"`
	Empty    bool   `json:"empty"`
	Full     bool   `json:"full"`
}

// QueueManager owns a set of named bounded queues created on first use.
// All access to a queue goes through the manager's lock.
type QueueManager struct {
	mu       sync.Mutex
	queues   map[string]*Queue
	capacity int
	opts     []Option
}

// NewQueueManager creates a manager whose queues hold capacity entries each.
// A non-positive capacity falls back to DefaultCapacity.
func NewQueueManager(capacity int, opts ...Option) *QueueManager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &QueueManager{
		queues:   make(map[string]*Queue),
		capacity: capacity,
		opts:     opts,
	}
}

func (m *QueueManager) Capacity() int { return m.capacity }

// getOrCreate must be called with m.mu held.
func (m *QueueManager) getOrCreate(name string) *Queue {
	q, ok := m.queues[name]
	if !ok {
		q = NewQueueSize(m.capacity, m.opts...)
		m.queues[name] = q
	}
	return q
}

func (m *QueueManager) with(name string, fn func(q *Queue)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.getOrCreate(name))
}

func (m *QueueManager) EnqueueWithName(name string, x Entry) error {
	var err error
	m.with(name, func(q *Queue) { err = q.Enqueue(x) })
	return err
}

func (m *QueueManager) DequeueWithName(name string) (Entry, error) {
	var (
		x   Entry
		err error
	)
	m.with(name, func(q *Queue) { x, err = q.Dequeue() })
	return x, err
}

func (m *QueueManager) PeekWithName(name string) (Entry, error) {
	var (
		x   Entry
		err error
	)
	m.with(name, func(q *Queue) { x, err = q.Peek() })
	return x, err
}

func (m *QueueManager) ClearWithName(name string) error {
	var err error
	m.with(name, func(q *Queue) { err = q.Clear() })
	return err
}

// TraverseWithName collects the entries of the named queue in FIFO order.
// The visit runs under the manager lock, so the result is a consistent snapshot.
func (m *QueueManager) TraverseWithName(name string) ([]Entry, error) {
	var (
		out []Entry
		err error
	)
	m.with(name, func(q *Queue) {
		err = q.Traverse(func(x Entry) { out = append(out, x) })
	})
	return out, err
}

func (m *QueueManager) StatsWithName(name string) Stats {
	var st Stats
	m.with(name, func(q *Queue) {
		st = Stats{
			Name:     name,
			Size:     q.Size(),
			Capacity: q.Cap(),
			Empty:    q.IsEmpty(),
			Full:     q.IsFull(),
		}
	})
	return st
}

// Names returns the known queue names, sorted.
func (m *QueueManager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.queues))
	for name := range m.queues {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
