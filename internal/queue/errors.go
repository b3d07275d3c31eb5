package queue

import "errors"

var (
	// ErrCapacityExceeded is returned by Enqueue on a full queue.
	ErrCapacityExceeded = errors.New("queue is full")
	// ErrUnderflow is returned by operations that need at least one entry.
	ErrUnderflow = errors.New("queue is empty")
)

// Operation names carried by OpError.
const (
	OpEnqueue  = "enqueue"
	OpDequeue  = "dequeue"
	OpPeek     = "peek"
	OpClear    = "clear"
	OpTraverse = "traverse"
)

// OpError records which operation failed and why.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return "queue: " + e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }

// IsFull reports whether err is a capacity violation.
func IsFull(err error) bool { return errors.Is(err, ErrCapacityExceeded) }

// IsEmpty reports whether err is an underflow.
func IsEmpty(err error) bool { return errors.Is(err, ErrUnderflow) }
