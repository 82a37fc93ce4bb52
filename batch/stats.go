package batch

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/MasterOfBinary/orderflow/item"
)

// StatsCollector defines the interface for collecting statistics about
// delivered batches. Implementations can keep them in memory or forward them
// to a monitoring system. The StatsCollector is optional - if not provided,
// no statistics are collected.
type StatsCollector interface {
	// RecordBatchStart is called when the Batcher wakes to a non-empty ready
	// queue, before the first item of batch number n is delivered.
	RecordBatchStart(n uint64)

	// RecordBatchComplete is called after every item of the batch has been
	// delivered and the completion counter incremented.
	RecordBatchComplete(batchSize int, duration time.Duration)

	// RecordItemDelivered is called once for each delivered item.
	RecordItemDelivered(kind item.Kind)

	// GetStats returns a snapshot of the current statistics.
	GetStats() Stats
}

// Stats holds aggregated statistics about delivered batches.
type Stats struct {
	// BatchesStarted is the total number of batches taken from the ready queue.
	BatchesStarted uint64

	// BatchesCompleted is the total number of batches fully delivered.
	BatchesCompleted uint64

	// ItemsDelivered is the total number of delivered items.
	ItemsDelivered uint64

	// ItemsByKind breaks ItemsDelivered down by item kind.
	ItemsByKind map[item.Kind]uint64

	// TotalDeliveryTime is the cumulative time spent delivering batches.
	TotalDeliveryTime time.Duration

	// MinBatchTime is the minimum time taken to deliver a batch.
	MinBatchTime time.Duration

	// MaxBatchTime is the maximum time taken to deliver a batch.
	MaxBatchTime time.Duration

	// MinBatchSize is the smallest batch delivered.
	MinBatchSize int

	// MaxBatchSize is the largest batch delivered.
	MaxBatchSize int

	// StartTime is when statistics collection began.
	StartTime time.Time

	// LastUpdateTime is when statistics were last updated.
	LastUpdateTime time.Time
}

// NoOpStatsCollector is a stats collector that discards all statistics.
// This is the default stats collector when none is specified.
type NoOpStatsCollector struct{}

// RecordBatchStart implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordBatchStart(uint64) {}

// RecordBatchComplete implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordBatchComplete(batchSize int, duration time.Duration) {}

// RecordItemDelivered implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordItemDelivered(kind item.Kind) {}

// GetStats implements the StatsCollector interface.
func (n *NoOpStatsCollector) GetStats() Stats {
	return Stats{}
}

// BasicStatsCollector is a simple in-memory implementation of StatsCollector.
// All operations are thread-safe.
type BasicStatsCollector struct {
	mu    sync.RWMutex
	stats Stats

	batchesStarted   atomic.Uint64
	batchesCompleted atomic.Uint64
	itemsDelivered   atomic.Uint64
}

// NewBasicStatsCollector creates a new BasicStatsCollector.
func NewBasicStatsCollector() *BasicStatsCollector {
	now := time.Now()
	return &BasicStatsCollector{
		stats: Stats{
			ItemsByKind:    make(map[item.Kind]uint64),
			StartTime:      now,
			LastUpdateTime: now,
			MinBatchTime:   time.Duration(1<<63 - 1),
		},
	}
}

// RecordBatchStart implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordBatchStart(uint64) {
	b.batchesStarted.Add(1)

	b.mu.Lock()
	b.stats.LastUpdateTime = time.Now()
	b.mu.Unlock()
}

// RecordBatchComplete implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordBatchComplete(batchSize int, duration time.Duration) {
	b.batchesCompleted.Add(1)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats.LastUpdateTime = time.Now()
	b.stats.TotalDeliveryTime += duration

	if batchSize < b.stats.MinBatchSize || b.stats.MinBatchSize == 0 {
		b.stats.MinBatchSize = batchSize
	}
	if batchSize > b.stats.MaxBatchSize {
		b.stats.MaxBatchSize = batchSize
	}

	if duration < b.stats.MinBatchTime {
		b.stats.MinBatchTime = duration
	}
	if duration > b.stats.MaxBatchTime {
		b.stats.MaxBatchTime = duration
	}
}

// RecordItemDelivered implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordItemDelivered(kind item.Kind) {
	b.itemsDelivered.Add(1)

	b.mu.Lock()
	b.stats.ItemsByKind[kind]++
	b.mu.Unlock()
}

// GetStats implements the StatsCollector interface.
// It returns a snapshot of the current statistics.
func (b *BasicStatsCollector) GetStats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := b.stats
	stats.BatchesStarted = b.batchesStarted.Load()
	stats.BatchesCompleted = b.batchesCompleted.Load()
	stats.ItemsDelivered = b.itemsDelivered.Load()

	stats.ItemsByKind = make(map[item.Kind]uint64, len(b.stats.ItemsByKind))
	for k, v := range b.stats.ItemsByKind {
		stats.ItemsByKind[k] = v
	}

	if stats.BatchesCompleted == 0 {
		stats.MinBatchTime = 0
	}

	return stats
}

// AverageBatchTime returns the average time taken to deliver a batch.
// Returns 0 if no batches have been completed.
func (s *Stats) AverageBatchTime() time.Duration {
	if s.BatchesCompleted == 0 {
		return 0
	}
	return s.TotalDeliveryTime / time.Duration(s.BatchesCompleted)
}

// AverageBatchSize returns the average number of items per batch.
// Returns 0 if no batches have been completed.
func (s *Stats) AverageBatchSize() float64 {
	if s.BatchesCompleted == 0 {
		return 0
	}
	return float64(s.ItemsDelivered) / float64(s.BatchesCompleted)
}

// Duration returns the total duration since statistics collection started.
func (s *Stats) Duration() time.Duration {
	return s.LastUpdateTime.Sub(s.StartTime)
}
