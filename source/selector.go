package source

import (
	"math/rand/v2"
	"sync"

	"github.com/MasterOfBinary/orderflow/delay"
	"github.com/MasterOfBinary/orderflow/item"
)

// Selector chooses the kind of the next item. Implementations must be safe
// for concurrent use.
type Selector interface {
	Next() item.Kind
}

// Uniform returns a Selector that picks uniformly at random from kinds, or
// from every kind if none are given. If rng is nil, a randomly seeded
// generator is used.
func Uniform(rng *rand.Rand, kinds ...item.Kind) Selector {
	if rng == nil {
		rng = delay.NewRand(0)
	}
	if len(kinds) == 0 {
		kinds = item.Kinds()
	}
	return &uniformSelector{
		rng:   rng,
		kinds: append([]item.Kind(nil), kinds...),
	}
}

type uniformSelector struct {
	mu    sync.Mutex
	rng   *rand.Rand
	kinds []item.Kind
}

func (s *uniformSelector) Next() item.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kinds[s.rng.IntN(len(s.kinds))]
}

// Fixed returns a Selector that always picks kind.
func Fixed(kind item.Kind) Selector {
	return fixedSelector(kind)
}

type fixedSelector item.Kind

func (s fixedSelector) Next() item.Kind {
	return item.Kind(s)
}

// Sequence returns a Selector that cycles through kinds in order. With no
// kinds it cycles through every kind.
func Sequence(kinds ...item.Kind) Selector {
	if len(kinds) == 0 {
		kinds = item.Kinds()
	}
	return &sequenceSelector{kinds: append([]item.Kind(nil), kinds...)}
}

type sequenceSelector struct {
	mu    sync.Mutex
	kinds []item.Kind
	next  int
}

func (s *sequenceSelector) Next() item.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := s.kinds[s.next]
	s.next = (s.next + 1) % len(s.kinds)
	return k
}
