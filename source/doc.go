// Package source contains the Producer, the first actor of the pipeline.
//
// The Producer stands in for a waiter taking orders. Each iteration it picks
// an item kind with a Selector, sleeps for a randomized "composing the
// order" delay, and pushes the new item onto the intake queue, which wakes
// the transformer. It keeps going until the shutdown flag is raised or, if
// a limit is configured, until it has produced that many items.
//
// Selectors decide which kinds are produced:
//
// - Uniform: picks uniformly at random, optionally from a subset of kinds
// - Fixed: always the same kind
// - Sequence: cycles through a list of kinds, which makes runs repeatable
//
// Basic usage:
//
//	intake := queue.New[item.Item]()
//	var stop lifecycle.Flag
//
//	p, err := source.NewProducer(source.Config{
//		Delay: delay.Range{Min: 5 * time.Second, Max: 10 * time.Second},
//	}, intake, &stop)
//	if err != nil {
//		// handle error
//	}
//	p.WithSink(sink.NewConsole(os.Stdout))
//
//	go p.Run(ctx)
package source
