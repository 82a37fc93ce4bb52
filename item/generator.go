package item

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator creates Items with unique IDs and strictly increasing sequence
// numbers. It is safe for concurrent use.
type Generator struct {
	mu      sync.Mutex
	lastSeq uint64
	now     func() time.Time
}

// NewGenerator returns a Generator whose first item has Seq 1.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Next returns a new item of the given kind.
func (g *Generator) Next(kind Kind) Item {
	g.mu.Lock()
	g.lastSeq++
	seq := g.lastSeq
	g.mu.Unlock()

	return Item{
		ID:        uuid.New(),
		Seq:       seq,
		Kind:      kind,
		CreatedAt: g.now(),
	}
}

// Count returns the number of items generated so far.
func (g *Generator) Count() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastSeq
}
