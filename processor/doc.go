// Package processor contains the Transformer, the middle actor of the
// pipeline, and the Processor interface it applies to each item.
//
// The Transformer stands in for a kitchen. It blocks until the intake queue
// has an item, takes exactly one, sleeps for a randomized preparation time,
// runs the item through its Processor and pushes the result onto the ready
// queue, which wakes the batcher. Because it handles one item per wake and
// the queues are FIFO, items reach the ready queue in the order they were
// produced.
//
// Processors can be chained and wrapped:
//
// - Identity: returns the item unchanged (the default)
// - Func: adapts a plain function
// - Chain: runs several processors in sequence
// - WrapWithLogging: logs each item and how long the processor took
// - WrapWithTracing: records a span per item
//
// Basic usage:
//
//	t, err := processor.NewTransformer(processor.Config{
//		Delay: delay.Range{Min: 5 * time.Second, Max: 15 * time.Second},
//	}, intake, ready, &stop)
//	if err != nil {
//		// handle error
//	}
//	t.WithProcessor(processor.WrapWithLogging(processor.Identity, logger, "kitchen"))
//
//	go t.Run(ctx)
package processor
