package pipeline

import (
	"fmt"
	"time"
)

// Report summarizes a finished run.
type Report struct {
	// Batches is the final value of the completion counter.
	Batches uint64
	// Produced, Prepared and Delivered count the items each actor pushed
	// or delivered.
	Produced  uint64
	Prepared  uint64
	Delivered uint64
	// PendingIntake and PendingReady are the items left in each queue
	// after all actors stopped.
	PendingIntake int
	PendingReady  int
	Elapsed       time.Duration
}

// Balanced reports whether every produced item is either delivered or
// still pending.
func (r Report) Balanced() bool {
	return r.Produced == r.Delivered+uint64(r.PendingIntake)+uint64(r.PendingReady)
}

// String implements fmt.Stringer.
func (r Report) String() string {
	return fmt.Sprintf("batches=%d produced=%d prepared=%d delivered=%d pending_intake=%d pending_ready=%d elapsed=%v",
		r.Batches, r.Produced, r.Prepared, r.Delivered, r.PendingIntake, r.PendingReady, r.Elapsed.Round(time.Millisecond))
}
