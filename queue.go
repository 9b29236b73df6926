package forme

import (
	"context"
	"sync"
)

// Dispatcher schedules work onto the UI execution context.
// Validation never resolves in-stack; every step goes through a Dispatcher,
// which bounds recursion for long rule and element chains.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Dispatch(fn func()) { f(fn) }

// Queue is a FIFO main queue. Work may be dispatched from any goroutine but
// runs only where Drain or Run is called.
//
// usage:
//
//	q := NewQueue()
//	ctrl := NewController(root, WithDispatcher(q))
//	ctrl.Validate(func(r Result) { ... })
//	q.Drain()
type Queue struct {
	mu      sync.Mutex
	pending []func()
	ready   chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// DefaultQueue is used when a nil Dispatcher is passed to validation.
var DefaultQueue = NewQueue()

// Dispatch appends fn and signals Ready.
func (q *Queue) Dispatch(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Ready receives a value whenever work has been dispatched since the last receive.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Len returns the number of pending items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain runs pending work on the calling goroutine until the queue is empty,
// including work dispatched while draining. Returns the number of items run.
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return n
		}
		fn := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		fn()
		n++
	}
}

// Run drains the queue each time work arrives until ctx is done.
func (q *Queue) Run(ctx context.Context) error {
	for {
		q.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.ready:
		}
	}
}

func dispatcherOr(d Dispatcher) Dispatcher {
	if d == nil {
		return DefaultQueue
	}
	return d
}
