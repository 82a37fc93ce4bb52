// Package batch contains the delivery stage of the pipeline. The main type is
// Batcher, which can be created using NewBatcher. It repeatedly waits for the
// ready queue to become non-empty, takes everything in it as one batch, and
// increments the completion counter once per batch.
//
// A batch is whatever the ready queue holds at the moment the Batcher wakes:
// there is no minimum or maximum size. Between batches the Batcher sleeps for
// Config.Interval, so items prepared during the sleep are delivered together
// in the next batch.
//
// The Batcher stops when the shared stop flag is raised, when the completion
// counter reaches its target, or when the ready queue is closed and empty.
// An empty drain never increments the counter.
//
// Statistics about batch sizes and delivery times can be collected with a
// StatsCollector:
//
//	stats := batch.NewBasicStatsCollector()
//	b.WithStats(stats)
//	...
//	fmt.Println(stats.GetStats().AverageBatchSize())
package batch
