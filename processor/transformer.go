package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MasterOfBinary/orderflow/delay"
	"github.com/MasterOfBinary/orderflow/item"
	"github.com/MasterOfBinary/orderflow/lifecycle"
	"github.com/MasterOfBinary/orderflow/logger"
	"github.com/MasterOfBinary/orderflow/queue"
	"github.com/MasterOfBinary/orderflow/sink"
)

// Queue names the Transformer reports depth for.
const (
	IntakeQueue = "intake"
	ReadyQueue  = "ready"
)

// Metrics receives the Transformer's measurements.
type Metrics interface {
	IncReady(kind item.Kind)
	ObservePrepareDuration(d time.Duration)
	SetQueueDepth(queue string, depth int)
}

type noopMetrics struct{}

func (noopMetrics) IncReady(item.Kind) {}

func (noopMetrics) ObservePrepareDuration(time.Duration) {}

func (noopMetrics) SetQueueDepth(string, int) {}

// Transformer moves items from the intake queue to the ready queue, one at
// a time.
//
// Create one with NewTransformer. The With methods configure optional
// collaborators and must be called before Run.
type Transformer struct {
	cfg     Config
	intake  *queue.Queue[item.Item]
	ready   *queue.Queue[item.Item]
	stop    lifecycle.Stopper
	proc    Processor
	delay   delay.Policy
	sink    sink.Sink
	logger  *slog.Logger
	metrics Metrics

	mu      sync.Mutex
	started bool

	status   lifecycle.Status
	prepared atomic.Uint64
}

// NewTransformer returns a Transformer that takes from intake and pushes to
// ready until stop reports true or intake is closed and empty.
func NewTransformer(cfg Config, intake, ready *queue.Queue[item.Item], stop lifecycle.Stopper) (*Transformer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transformer config: %w", err)
	}
	if intake == nil || ready == nil {
		return nil, errors.New("transformer: queues cannot be nil")
	}
	if intake == ready {
		return nil, errors.New("transformer: intake and ready must be different queues")
	}
	if stop == nil {
		return nil, errors.New("transformer: stopper cannot be nil")
	}

	return &Transformer{
		cfg:     cfg,
		intake:  intake,
		ready:   ready,
		stop:    stop,
		proc:    Identity,
		delay:   delay.NewUniform(cfg.Delay, nil),
		sink:    sink.Discard{},
		logger:  logger.Discard(),
		metrics: noopMetrics{},
	}, nil
}

// WithProcessor sets the Processor applied to each item. Nil restores
// Identity.
//
// Panics if called after Run has started.
func (t *Transformer) WithProcessor(p Processor) *Transformer {
	if p == nil {
		p = Identity
	}
	t.configure(func() { t.proc = p })
	return t
}

// WithDelayPolicy replaces the policy built from Config.Delay.
//
// Panics if called after Run has started.
func (t *Transformer) WithDelayPolicy(d delay.Policy) *Transformer {
	t.configure(func() { t.delay = d })
	return t
}

// WithSink sets the sink that receives Ready events.
//
// Panics if called after Run has started.
func (t *Transformer) WithSink(s sink.Sink) *Transformer {
	t.configure(func() { t.sink = s })
	return t
}

// WithLogger sets the logger. If not set, nothing is logged.
//
// Panics if called after Run has started.
func (t *Transformer) WithLogger(l *slog.Logger) *Transformer {
	t.configure(func() { t.logger = logger.OrDiscard(l) })
	return t
}

// WithMetrics sets the metrics recorder.
//
// Panics if called after Run has started.
func (t *Transformer) WithMetrics(m Metrics) *Transformer {
	t.configure(func() { t.metrics = m })
	return t
}

func (t *Transformer) configure(set func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		panic("processor: Transformer cannot be configured after Run has started")
	}
	set()
}

// Run prepares items until the stop flag is raised or the intake queue is
// closed and empty. The flag is checked before each wait; an item that has
// already been taken is always prepared and pushed before Run checks again.
//
// Run always returns nil. It must be called at most once.
func (t *Transformer) Run(ctx context.Context) error {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		panic("processor: Transformer.Run called more than once")
	}
	t.started = true
	t.mu.Unlock()

	t.status.Store(lifecycle.Running)
	defer t.status.Store(lifecycle.Stopped)

	t.logger.Info("transformer started", "delay", t.cfg.Delay.String())

	for !t.stop.Stopped() {
		it, ok := t.intake.WaitPop()
		if !ok {
			t.logger.Debug("intake queue closed")
			break
		}
		t.metrics.SetQueueDepth(IntakeQueue, t.intake.Len())

		start := time.Now()
		time.Sleep(t.delay.Next())
		out := t.proc.Process(ctx, it)

		t.sink.Emit(sink.Event{Type: sink.Ready, Item: out})
		t.ready.Push(out)
		t.prepared.Add(1)

		t.metrics.IncReady(out.Kind)
		t.metrics.ObservePrepareDuration(time.Since(start))
		t.metrics.SetQueueDepth(ReadyQueue, t.ready.Len())
		t.logger.Debug("item ready", "seq", out.Seq, "kind", out.Kind.String())
	}

	t.logger.Info("transformer stopped", "prepared", t.prepared.Load())
	return nil
}

// Prepared returns the number of items pushed to the ready queue so far.
func (t *Transformer) Prepared() uint64 {
	return t.prepared.Load()
}

// State returns the Transformer's run state.
func (t *Transformer) State() lifecycle.State {
	return t.status.Load()
}
