// Package sink receives the events the pipeline actors emit as items move
// from stage to stage.
//
// A Sink must be safe for concurrent use: the three actors emit from their
// own goroutines. Implementations serialize whole events so output lines are
// never interleaved. Their locking is independent of the pipeline's queues.
package sink

import (
	"fmt"
	"sync"

	"github.com/MasterOfBinary/orderflow/item"
)

// EventType identifies the stage an event comes from.
type EventType int

const (
	// Queued is emitted by the producer as it pushes an item onto the
	// intake queue.
	Queued EventType = iota
	// Ready is emitted by the transformer as it pushes a prepared item
	// onto the ready queue.
	Ready
	// Delivered is emitted by the batcher for each item it drains from the
	// ready queue.
	Delivered
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case Queued:
		return "queued"
	case Ready:
		return "ready"
	case Delivered:
		return "delivered"
	default:
		return "unknown"
	}
}

// Event is a single observation of an item at one stage.
type Event struct {
	Type EventType
	Item item.Item

	// Batch is the number of the delivery round for Delivered events,
	// counting from 1. It is zero for other event types.
	Batch uint64
}

// Sink receives pipeline events.
type Sink interface {
	Emit(e Event)
}

// Func adapts an ordinary function to the Sink interface. The function must
// be safe for concurrent use.
type Func func(e Event)

// Emit implements Sink.
func (f Func) Emit(e Event) {
	f(e)
}

// Discard is a Sink that drops every event. It is the default when no sink
// is configured.
type Discard struct{}

// Emit implements Sink.
func (Discard) Emit(Event) {}

// Multi returns a Sink that forwards each event to every non-nil sink in
// order.
func Multi(sinks ...Sink) Sink {
	filtered := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return multi(filtered)
}

type multi []Sink

func (m multi) Emit(e Event) {
	for _, s := range m {
		s.Emit(e)
	}
}

// Recorder is a Sink that keeps every event in memory. It is mostly useful
// in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit implements Sink.
func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of all recorded events in emission order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Items returns the items of all recorded events of type t, in emission
// order.
func (r *Recorder) Items(t EventType) []item.Item {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []item.Item
	for _, e := range r.events {
		if e.Type == t {
			items = append(items, e.Item)
		}
	}
	return items
}

// Count returns the number of recorded events of type t.
func (r *Recorder) Count(t EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// String implements fmt.Stringer.
func (e Event) String() string {
	if e.Type == Delivered {
		return fmt.Sprintf("%s %s (batch %d)", e.Type, e.Item, e.Batch)
	}
	return fmt.Sprintf("%s %s", e.Type, e.Item)
}
