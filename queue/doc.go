// Package queue provides Queue, an unbounded FIFO that is safe for
// concurrent producers and consumers.
//
// Every operation runs under the queue's own mutex. Consumers that need to
// wait for work use WaitPop or WaitDrain, which block on a condition
// variable and re-check the queue after every wake. Since the wait predicate
// is the queue's length rather than a one-shot notification, an item pushed
// before a consumer starts waiting is never missed.
//
// Basic usage:
//
//	q := queue.New[string]()
//
//	go func() {
//		q.Push("a")
//		q.Push("b")
//		q.Close()
//	}()
//
//	for {
//		v, ok := q.WaitPop()
//		if !ok {
//			break
//		}
//		fmt.Println(v)
//	}
//
// Output:
//
//	a
//	b
package queue
