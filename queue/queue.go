package queue

import (
	"errors"
	"sync"
)

// ErrEmpty is returned by Pop and Peek when the queue has no items.
var ErrEmpty = errors.New("queue: empty")

// Queue is an unbounded FIFO guarded by a mutex. The zero value is not
// usable; create one with New.
//
// Pop and Peek never block. WaitPop and WaitDrain block until the queue has
// at least one item or has been closed. Closing a queue only affects waiters:
// Push keeps accepting items so nothing handed over during shutdown is lost.
type Queue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []T
	head   int
	closed bool
}

// New returns an empty queue.
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends v to the tail of the queue and wakes one waiter.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()

	q.cond.Signal()
}

// Pop removes and returns the head of the queue. It returns ErrEmpty if the
// queue has no items.
func (q *Queue[T]) Pop() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.lenLocked() == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return q.popLocked(), nil
}

// Peek returns the head of the queue without removing it. It returns
// ErrEmpty if the queue has no items.
func (q *Queue[T]) Peek() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.lenLocked() == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return q.items[q.head], nil
}

// IsEmpty reports whether the queue has no items. The result is only a hint:
// another goroutine may change the queue as soon as IsEmpty returns.
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

// Len returns the number of items in the queue. Like IsEmpty, the value may
// be stale by the time the caller uses it.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lenLocked()
}

// WaitPop blocks until the queue has an item, then removes and returns it.
// The lock is released while waiting.
//
// The second return value is false only if the queue was closed and is
// empty. Items pushed before or after Close are still returned.
func (q *Queue[T]) WaitPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.waitLocked() {
		var zero T
		return zero, false
	}
	return q.popLocked(), true
}

// WaitDrain blocks until the queue has at least one item, then removes every
// item in FIFO order, calling fn for each one while the lock is still held.
// It returns the number of items removed.
//
// fn must not call back into the queue.
//
// WaitDrain returns (0, false) only if the queue was closed and is empty.
func (q *Queue[T]) WaitDrain(fn func(T)) (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.waitLocked() {
		return 0, false
	}

	n := 0
	for q.lenLocked() > 0 {
		v := q.popLocked()
		n++
		if fn != nil {
			fn(v)
		}
	}
	return n, true
}

// Close wakes every goroutine blocked in WaitPop or WaitDrain. After Close,
// waits on an empty queue return immediately instead of blocking. Close can
// be called multiple times.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.cond.Broadcast()
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// waitLocked waits until the queue is non-empty or closed and reports
// whether there is an item to take. q.mu must be held.
func (q *Queue[T]) waitLocked() bool {
	for q.lenLocked() == 0 && !q.closed {
		q.cond.Wait()
	}
	return q.lenLocked() > 0
}

func (q *Queue[T]) lenLocked() int {
	return len(q.items) - q.head
}

// popLocked removes the head. The caller must hold q.mu and have checked
// that the queue is non-empty.
func (q *Queue[T]) popLocked() T {
	var zero T
	v := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head > 32 && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return v
}
