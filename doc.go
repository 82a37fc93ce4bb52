// Package orderflow runs a three-stage production pipeline: orders are
// placed, prepared one at a time, and delivered in batches.
//
// Three actors run concurrently and hand items to each other through two
// queues:
//
//	Producer -> intake -> Transformer -> ready -> Batcher
//
// The Producer (the waiter) places orders after a random delay. The
// Transformer (the kitchen) takes one order at a time, prepares it for a
// random duration, and pushes it to the ready queue. The Batcher (the
// courier) wakes when the ready queue is non-empty, takes everything in it
// as one delivery, and sleeps for a fixed interval. After the configured
// number of deliveries the pipeline shuts down.
//
// The simplest way to run a pipeline is Run:
//
//	cfg := config.Default()
//	cfg.TargetBatches = 3
//	report, err := orderflow.Run(ctx, cfg, pipeline.WithSink(sink.NewConsole(os.Stdout)))
//
// The building blocks live in their own packages and can be used on their
// own: queue (the blocking FIFO), counter (the completion counter),
// lifecycle (the shutdown flag), and source, processor and batch (the
// actors). The pipeline package wires them together.
package orderflow
