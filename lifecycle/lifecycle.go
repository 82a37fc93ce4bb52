// Package lifecycle holds the shutdown flag shared by the pipeline actors
// and the state each actor reports.
package lifecycle

import "sync/atomic"

// Stopper is the read side of a shutdown flag. Actors poll it once per loop
// iteration.
type Stopper interface {
	Stopped() bool
}

// Flag is a write-once shutdown signal. Reads are lock-free, so actors can
// check it on every iteration without contending with each other.
type Flag struct {
	set atomic.Bool
}

// Set raises the flag. It reports whether this call changed it; only the
// first call does.
func (f *Flag) Set() bool {
	return f.set.CompareAndSwap(false, true)
}

// Stopped implements Stopper.
func (f *Flag) Stopped() bool {
	return f.set.Load()
}

// State is the run state of an actor.
type State int32

const (
	// Idle means Run has not been called yet.
	Idle State = iota
	// Running means the actor is inside its loop.
	Running
	// Stopped means the actor has left its loop and Run has returned or is
	// about to.
	Stopped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Running:
		return "RUNNING"
	case Stopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// Status stores a State so it can be read from other goroutines.
type Status struct {
	v atomic.Int32
}

// Load returns the current state.
func (s *Status) Load() State {
	return State(s.v.Load())
}

// Store sets the current state.
func (s *Status) Store(state State) {
	s.v.Store(int32(state))
}
