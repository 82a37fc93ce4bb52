// Package pipeline wires the three actors together and runs them until a
// target number of batches has been delivered.
//
// A Coordinator owns nothing between runs. Each call to Run creates a fresh
// State holding the intake and ready queues, the completion counter, and
// the shutdown flag, so any number of pipelines can run in one process:
//
//	Producer -> intake -> Transformer -> ready -> Batcher -> counter
//
// Run starts the Producer, Transformer and Batcher, blocks until the
// counter reaches the target, raises the shutdown flag, closes both queues
// so no actor stays blocked on an empty one, and joins all three. Actors
// finish the step they are in before they stop; a sleep in progress is
// never cut short. Items still queued at that point are reported as
// pending, never dropped silently:
//
//	report.Produced == report.Delivered + report.PendingIntake + report.PendingReady
package pipeline
