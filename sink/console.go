package sink

import (
	"fmt"
	"io"
	"sync"
)

// Console writes one human-readable line per event, using the restaurant
// vocabulary: the producer is a waiter, the transformer a kitchen, and the
// batcher a courier.
//
//	The waiter placed an order for -> pizza
//	The kitchen has prepared -> pizza
//	The courier took -> pizza
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole returns a Console that writes to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Emit implements Sink. Write errors are ignored, as they are for
// fmt.Println.
func (c *Console) Emit(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = fmt.Fprintf(c.w, "%s%s\n", consolePrefix(e.Type), e.Item.Kind)
}

func consolePrefix(t EventType) string {
	switch t {
	case Queued:
		return "The waiter placed an order for -> "
	case Ready:
		return "The kitchen has prepared -> "
	case Delivered:
		return "The courier took -> "
	default:
		return "Unknown event -> "
	}
}
