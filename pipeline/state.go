package pipeline

import (
	"github.com/MasterOfBinary/orderflow/counter"
	"github.com/MasterOfBinary/orderflow/item"
	"github.com/MasterOfBinary/orderflow/lifecycle"
	"github.com/MasterOfBinary/orderflow/queue"
)

// State is everything the actors of one pipeline share.
type State struct {
	Intake    *queue.Queue[item.Item]
	Ready     *queue.Queue[item.Item]
	Completed *counter.Counter
	Shutdown  lifecycle.Flag
}

// NewState returns an empty State whose counter targets target batches.
func NewState(target uint64) *State {
	return &State{
		Intake:    queue.New[item.Item](),
		Ready:     queue.New[item.Item](),
		Completed: counter.New(target),
	}
}

// Stop raises the shutdown flag and closes both queues, waking any actor
// blocked on an empty one. It reports whether this call raised the flag.
func (s *State) Stop() bool {
	first := s.Shutdown.Set()
	s.Intake.Close()
	s.Ready.Close()
	return first
}
