package pipeline

import (
	"errors"
	"fmt"
)

// ErrExhausted is returned by Run when every actor stopped on its own before
// the target was reached, which happens when the Producer has a limit.
var ErrExhausted = errors.New("pipeline: actors finished before the target was reached")

// Actor names used in ActorError and log records.
const (
	ActorProducer    = "producer"
	ActorTransformer = "transformer"
	ActorBatcher     = "batcher"
)

// ActorError is returned by Run when one of the actors failed.
type ActorError struct {
	Actor string
	Err   error
}

// Error implements error.
func (e *ActorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Actor, e.Err)
}

// Unwrap returns the actor's error.
func (e *ActorError) Unwrap() error {
	return e.Err
}
