package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/MasterOfBinary/orderflow/delay"
	"github.com/MasterOfBinary/orderflow/item"
	"github.com/MasterOfBinary/orderflow/lifecycle"
	"github.com/MasterOfBinary/orderflow/logger"
	"github.com/MasterOfBinary/orderflow/queue"
	"github.com/MasterOfBinary/orderflow/sink"
)

// Metrics receives the Producer's measurements.
type Metrics interface {
	IncQueued(kind item.Kind)
	SetQueueDepth(queue string, depth int)
}

// IntakeQueue is the queue name the Producer reports depth for.
const IntakeQueue = "intake"

type noopMetrics struct{}

func (noopMetrics) IncQueued(item.Kind) {}

func (noopMetrics) SetQueueDepth(string, int) {}

// Producer generates items and pushes them onto the intake queue.
//
// Create one with NewProducer. The With methods configure optional
// collaborators and must be called before Run.
type Producer struct {
	cfg     Config
	intake  *queue.Queue[item.Item]
	stop    lifecycle.Stopper
	kinds   Selector
	delay   delay.Policy
	gen     *item.Generator
	limiter *rate.Limiter
	sink    sink.Sink
	logger  *slog.Logger
	metrics Metrics

	mu      sync.Mutex
	started bool

	status   lifecycle.Status
	produced atomic.Uint64
}

// NewProducer returns a Producer that pushes onto intake until stop
// reports true. It returns an error if cfg is invalid or a collaborator is
// missing.
func NewProducer(cfg Config, intake *queue.Queue[item.Item], stop lifecycle.Stopper) (*Producer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid producer config: %w", err)
	}
	if intake == nil {
		return nil, errors.New("producer: intake queue cannot be nil")
	}
	if stop == nil {
		return nil, errors.New("producer: stopper cannot be nil")
	}

	p := &Producer{
		cfg:     cfg,
		intake:  intake,
		stop:    stop,
		kinds:   Uniform(nil),
		delay:   delay.NewUniform(cfg.Delay, nil),
		gen:     item.NewGenerator(),
		sink:    sink.Discard{},
		logger:  logger.Discard(),
		metrics: noopMetrics{},
	}
	if cfg.RateLimit > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return p, nil
}

// WithSelector sets the Selector that picks item kinds. The default picks
// uniformly from every kind.
//
// Panics if called after Run has started.
func (p *Producer) WithSelector(s Selector) *Producer {
	p.configure(func() { p.kinds = s })
	return p
}

// WithDelayPolicy replaces the policy built from Config.Delay.
//
// Panics if called after Run has started.
func (p *Producer) WithDelayPolicy(d delay.Policy) *Producer {
	p.configure(func() { p.delay = d })
	return p
}

// WithGenerator sets the generator that assigns item IDs and sequence
// numbers.
//
// Panics if called after Run has started.
func (p *Producer) WithGenerator(g *item.Generator) *Producer {
	p.configure(func() { p.gen = g })
	return p
}

// WithSink sets the sink that receives Queued events.
//
// Panics if called after Run has started.
func (p *Producer) WithSink(s sink.Sink) *Producer {
	p.configure(func() { p.sink = s })
	return p
}

// WithLogger sets the logger. If not set, nothing is logged.
//
// Panics if called after Run has started.
func (p *Producer) WithLogger(l *slog.Logger) *Producer {
	p.configure(func() { p.logger = logger.OrDiscard(l) })
	return p
}

// WithMetrics sets the metrics recorder.
//
// Panics if called after Run has started.
func (p *Producer) WithMetrics(m Metrics) *Producer {
	p.configure(func() { p.metrics = m })
	return p
}

func (p *Producer) configure(set func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		panic("source: Producer cannot be configured after Run has started")
	}
	set()
}

// Run produces items until the stop flag is raised or the configured limit
// is reached. The flag is checked once per iteration, before a new item is
// started, so an iteration that is already sleeping finishes and pushes its
// item first.
//
// Run returns an error only if waiting on the rate limiter fails, which
// happens when ctx is canceled. Run must be called at most once.
func (p *Producer) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		panic("source: Producer.Run called more than once")
	}
	p.started = true
	p.mu.Unlock()

	p.status.Store(lifecycle.Running)
	defer p.status.Store(lifecycle.Stopped)

	p.logger.Info("producer started", "delay", p.cfg.Delay.String(), "limit", p.cfg.Limit)

	for !p.stop.Stopped() {
		if p.cfg.Limit > 0 && p.produced.Load() >= p.cfg.Limit {
			p.logger.Info("producer reached its item limit", "limit", p.cfg.Limit)
			break
		}

		kind := p.kinds.Next()
		time.Sleep(p.delay.Next())

		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				p.logger.Warn("producer stopped while rate limited", "error", err)
				return fmt.Errorf("producer rate limiter: %w", err)
			}
		}

		it := p.gen.Next(kind)

		// Emit before the push so the Queued event always precedes the
		// transformer's Ready event for the same item.
		p.sink.Emit(sink.Event{Type: sink.Queued, Item: it})
		p.intake.Push(it)
		p.produced.Add(1)

		p.metrics.IncQueued(kind)
		p.metrics.SetQueueDepth(IntakeQueue, p.intake.Len())
		p.logger.Debug("item queued", "seq", it.Seq, "kind", kind.String())
	}

	p.logger.Info("producer stopped", "produced", p.produced.Load())
	return nil
}

// Produced returns the number of items pushed so far.
func (p *Producer) Produced() uint64 {
	return p.produced.Load()
}

// State returns the Producer's run state.
func (p *Producer) State() lifecycle.State {
	return p.status.Load()
}
