package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/MasterOfBinary/orderflow/counter"
	"github.com/MasterOfBinary/orderflow/item"
	"github.com/MasterOfBinary/orderflow/lifecycle"
	"github.com/MasterOfBinary/orderflow/logger"
	"github.com/MasterOfBinary/orderflow/queue"
	"github.com/MasterOfBinary/orderflow/sink"
)

// ReadyQueue is the queue name the Batcher reports depth for.
const ReadyQueue = "ready"

// Metrics receives the Batcher's measurements.
type Metrics interface {
	IncDelivered(kind item.Kind)
	ObserveBatchSize(size int)
	SetQueueDepth(queue string, depth int)
}

type noopMetrics struct{}

func (noopMetrics) IncDelivered(item.Kind) {}

func (noopMetrics) ObserveBatchSize(int) {}

func (noopMetrics) SetQueueDepth(string, int) {}

// Batcher delivers everything in the ready queue as one batch, increments
// the completion counter, and sleeps for the configured interval.
//
// Create one with NewBatcher. The With methods configure optional
// collaborators and must be called before Run.
type Batcher struct {
	cfg       Config
	ready     *queue.Queue[item.Item]
	completed *counter.Counter
	stop      lifecycle.Stopper
	sink      sink.Sink
	logger    *slog.Logger
	stats     StatsCollector
	metrics   Metrics
	tracer    trace.Tracer

	mu      sync.Mutex
	started bool

	status    lifecycle.Status
	delivered atomic.Uint64
}

// NewBatcher returns a Batcher that drains ready and increments completed
// until stop reports true, completed reaches its target, or ready is closed
// and empty.
func NewBatcher(cfg Config, ready *queue.Queue[item.Item], completed *counter.Counter, stop lifecycle.Stopper) (*Batcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid batcher config: %w", err)
	}
	if ready == nil {
		return nil, errors.New("batcher: ready queue cannot be nil")
	}
	if completed == nil {
		return nil, errors.New("batcher: completion counter cannot be nil")
	}
	if stop == nil {
		return nil, errors.New("batcher: stopper cannot be nil")
	}

	return &Batcher{
		cfg:       cfg,
		ready:     ready,
		completed: completed,
		stop:      stop,
		sink:      sink.Discard{},
		logger:    logger.Discard(),
		stats:     &NoOpStatsCollector{},
		metrics:   noopMetrics{},
		tracer:    noop.NewTracerProvider().Tracer(""),
	}, nil
}

// WithSink sets the sink that receives Delivered events.
//
// Panics if called after Run has started.
func (b *Batcher) WithSink(s sink.Sink) *Batcher {
	b.configure(func() { b.sink = s })
	return b
}

// WithLogger sets the logger. If not set, nothing is logged.
//
// Panics if called after Run has started.
func (b *Batcher) WithLogger(l *slog.Logger) *Batcher {
	b.configure(func() { b.logger = logger.OrDiscard(l) })
	return b
}

// WithStats sets the stats collector. Nil disables collection.
//
// Panics if called after Run has started.
func (b *Batcher) WithStats(s StatsCollector) *Batcher {
	if s == nil {
		s = &NoOpStatsCollector{}
	}
	b.configure(func() { b.stats = s })
	return b
}

// WithMetrics sets the metrics recorder.
//
// Panics if called after Run has started.
func (b *Batcher) WithMetrics(m Metrics) *Batcher {
	b.configure(func() { b.metrics = m })
	return b
}

// WithTracer sets the tracer used for the per-batch "batch.deliver" span.
//
// Panics if called after Run has started.
func (b *Batcher) WithTracer(t trace.Tracer) *Batcher {
	if t == nil {
		t = noop.NewTracerProvider().Tracer("")
	}
	b.configure(func() { b.tracer = t })
	return b
}

func (b *Batcher) configure(set func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		panic("batch: Batcher cannot be configured after Run has started")
	}
	set()
}

// Run delivers batches until the stop flag is raised, the completion
// counter reaches its target, or the ready queue is closed and empty.
// The sleep between batches is never cut short.
//
// Run always returns nil. It must be called at most once.
func (b *Batcher) Run(ctx context.Context) error {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		panic("batch: Batcher.Run called more than once")
	}
	b.started = true
	b.mu.Unlock()

	b.status.Store(lifecycle.Running)
	defer b.status.Store(lifecycle.Stopped)

	b.logger.Info("batcher started",
		"interval", b.cfg.Interval,
		"target", b.completed.Target(),
	)

	for !b.stop.Stopped() && !b.completed.Reached() {
		if !b.deliver(ctx) {
			b.logger.Debug("ready queue closed")
			break
		}
		time.Sleep(b.cfg.Interval)
	}

	b.logger.Info("batcher stopped",
		"batches", b.completed.Value(),
		"delivered", b.delivered.Load(),
	)
	return nil
}

// deliver waits for the ready queue to become non-empty and delivers all of
// it as the next batch. It reports false if the queue was closed and empty.
func (b *Batcher) deliver(ctx context.Context) bool {
	n := b.completed.Value() + 1

	var (
		span  trace.Span
		start time.Time
	)
	size, ok := b.ready.WaitDrain(func(it item.Item) {
		if span == nil {
			start = time.Now()
			b.stats.RecordBatchStart(n)
			_, span = b.tracer.Start(ctx, "batch.deliver",
				trace.WithAttributes(attribute.Int64("batch.number", int64(n))))
		}
		b.sink.Emit(sink.Event{Type: sink.Delivered, Item: it, Batch: n})
		b.stats.RecordItemDelivered(it.Kind)
		b.metrics.IncDelivered(it.Kind)
	})
	if !ok {
		return false
	}

	b.delivered.Add(uint64(size))
	b.completed.Increment()

	span.SetAttributes(attribute.Int("batch.size", size))
	span.End()

	b.stats.RecordBatchComplete(size, time.Since(start))
	b.metrics.ObserveBatchSize(size)
	b.metrics.SetQueueDepth(ReadyQueue, b.ready.Len())
	b.logger.Debug("batch delivered", "batch", n, "size", size)
	return true
}

// Delivered returns the number of items delivered so far.
func (b *Batcher) Delivered() uint64 {
	return b.delivered.Load()
}

// State returns the Batcher's run state.
func (b *Batcher) State() lifecycle.State {
	return b.status.Load()
}
