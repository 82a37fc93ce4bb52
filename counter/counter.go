// Package counter provides Counter, a monotonically increasing count with a
// target that other goroutines can block on.
package counter

import (
	"context"
	"sync"
)

// Counter counts completed rounds. One goroutine increments it and another
// waits for it to reach its target. The mutex that guards the value also
// guards the wait condition, so an increment can never slip in between the
// waiter's check and its wait.
type Counter struct {
	mu     sync.Mutex
	cond   *sync.Cond
	value  uint64
	target uint64
}

// New returns a Counter at zero with the given target.
func New(target uint64) *Counter {
	c := &Counter{target: target}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Increment adds one to the counter, wakes the waiter and returns the new
// value.
func (c *Counter) Increment() uint64 {
	c.mu.Lock()
	c.value++
	v := c.value
	c.mu.Unlock()

	c.cond.Signal()
	return v
}

// Value returns the current value.
func (c *Counter) Value() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Target returns the target given to New.
func (c *Counter) Target() uint64 {
	return c.target
}

// Reached reports whether the value has reached the target.
func (c *Counter) Reached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value >= c.target
}

// Wait blocks until the value reaches the target. See WaitAtLeast.
func (c *Counter) Wait(ctx context.Context) (uint64, error) {
	return c.WaitAtLeast(ctx, c.target)
}

// WaitAtLeast blocks until the value is at least n or ctx is done. It returns
// the value observed when it stopped waiting, and ctx.Err() if ctx ended the
// wait first.
func (c *Counter) WaitAtLeast(ctx context.Context, n uint64) (uint64, error) {
	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.cond.Broadcast()
	})
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()

	for c.value < n {
		if err := ctx.Err(); err != nil {
			return c.value, err
		}
		c.cond.Wait()
	}
	return c.value, nil
}
