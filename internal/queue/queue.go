package queue

import "iter"

// DefaultCapacity is the number of slots a queue gets from NewQueue.
const DefaultCapacity = 26

// Entry is the unit stored in a queue: a single character.
type Entry = byte

// Reporter receives every precondition violation before it is returned to the caller.
type Reporter func(err error)

type Option func(*Queue)

// WithReporter installs r as the queue's error-reporting hook.
func WithReporter(r Reporter) Option {
	return func(q *Queue) { q.report = r }
}

// Queue is a fixed-capacity circular FIFO of entries.
// It is not safe for concurrent use; see QueueManager for a guarded set of queues.
type Queue struct {
	count  int
	front  int
	rear   int
	entry  []Entry
	report Reporter
}

func NewQueue(opts ...Option) *Queue { return NewQueueSize(DefaultCapacity, opts...) }

// NewQueueSize creates an empty queue holding at most capacity entries.
// It panics if capacity is not positive.
func NewQueueSize(capacity int, opts ...Option) *Queue {
	if capacity <= 0 {
		panic("queue: capacity must be positive")
	}
	q := &Queue{
		rear:  -1,
		entry: make([]Entry, capacity),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue appends x as the last entry.
func (q *Queue) Enqueue(x Entry) error {
	if q.IsFull() {
		return q.fail(OpEnqueue, ErrCapacityExceeded)
	}
	q.count++
	q.rear = q.next(q.rear)
	q.entry[q.rear] = x
	return nil
}

// Dequeue removes and returns the oldest entry.
func (q *Queue) Dequeue() (Entry, error) {
	if q.IsEmpty() {
		return 0, q.fail(OpDequeue, ErrUnderflow)
	}
	x := q.entry[q.front]
	q.count--
	q.front = q.next(q.front)
	return x, nil
}

// Peek returns the oldest entry without removing it.
func (q *Queue) Peek() (Entry, error) {
	if q.IsEmpty() {
		return 0, q.fail(OpPeek, ErrUnderflow)
	}
	return q.entry[q.front], nil
}

// Clear drops every entry. Clearing an empty queue is an underflow.
func (q *Queue) Clear() error {
	if q.IsEmpty() {
		return q.fail(OpClear, ErrUnderflow)
	}
	q.reset()
	return nil
}

// Traverse calls visit for each entry from oldest to newest.
// visit must not modify the queue. Traversing an empty queue is an underflow.
func (q *Queue) Traverse(visit func(Entry)) error {
	if q.IsEmpty() {
		return q.fail(OpTraverse, ErrUnderflow)
	}
	for i := 0; i < q.count; i++ {
		visit(q.at(i))
	}
	return nil
}

// All returns the live entries in FIFO order. Unlike Traverse it yields
// nothing for an empty queue. The sequence reads the queue lazily.
func (q *Queue) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for i := 0; i < q.count; i++ {
			if !yield(q.at(i)) {
				return
			}
		}
	}
}

// Entries returns a copy of the live entries in FIFO order, or nil if empty.
func (q *Queue) Entries() []Entry {
	if q.IsEmpty() {
		return nil
	}
	out := make([]Entry, 0, q.count)
	for x := range q.All() {
		out = append(out, x)
	}
	return out
}

func (q *Queue) Size() int { return q.count }
func (q *Queue) Cap() int { return len(q.entry) }
func (q *Queue) IsEmpty() bool { return q.count <= 0 }
func (q *Queue) IsFull() bool { return q.count >= len(q.entry) }

func (q *Queue) reset() {
	q.count = 0
	q.front = 0
	q.rear = -1
}

// at returns the i-th live entry counting from front.
func (q *Queue) at(i int) Entry {
	return q.entry[(q.front+i)%len(q.entry)]
}

func (q *Queue) next(idx int) int {
	return (idx + 1) % len(q.entry)
}

func (q *Queue) fail(op string, err error) error {
	e := &OpError{Op: op, Err: err}
	if q.report != nil {
		q.report(e)
	}
	return e
}
