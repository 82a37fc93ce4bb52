package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/MasterOfBinary/orderflow/batch"
	"github.com/MasterOfBinary/orderflow/config"
	"github.com/MasterOfBinary/orderflow/delay"
	"github.com/MasterOfBinary/orderflow/logger"
	"github.com/MasterOfBinary/orderflow/processor"
	"github.com/MasterOfBinary/orderflow/sink"
	"github.com/MasterOfBinary/orderflow/source"
)

const tracerName = "github.com/MasterOfBinary/orderflow/pipeline"

// Random streams derived from Config.Seed, one per consumer, so that no
// *rand.Rand is shared between goroutines.
const (
	streamKinds uint64 = iota + 1
	streamOrderDelay
	streamPrepDelay
)

// Coordinator runs pipelines described by a config.Config.
type Coordinator struct {
	cfg config.Config

	sink           sink.Sink
	logger         *slog.Logger
	metrics        Metrics
	stats          batch.StatsCollector
	tracerProvider trace.TracerProvider
	tracing        bool
	selector       source.Selector
	processor      processor.Processor
}

// New validates cfg and returns a Coordinator.
func New(cfg config.Config, opts ...Option) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Coordinator{
		cfg:            cfg,
		sink:           sink.Discard{},
		logger:         logger.Discard(),
		tracerProvider: noop.NewTracerProvider(),
		processor:      processor.Identity,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracerProvider == nil {
		c.tracerProvider = noop.NewTracerProvider()
	}
	if c.processor == nil {
		c.processor = processor.Identity
	}
	return c, nil
}

// Run runs one pipeline until Config.TargetBatches batches have been
// delivered, then stops every actor and returns the Report.
//
// If ctx is canceled first, or an actor fails, Run still stops and joins
// every actor and returns the partial Report together with the error. If
// the actors run out of work before the target is reached, the error is
// ErrExhausted.
// Stopping waits for sleeps in progress, so cancellation takes effect
// within the longest configured delay.
func (c *Coordinator) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	target := c.cfg.TargetBatches

	ctx, span := c.tracerProvider.Tracer(tracerName).Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.Int64("pipeline.target", int64(target))))
	defer span.End()

	st := NewState(target)

	producer, transformer, batcher, err := c.actors(st)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Report{}, err
	}

	c.logger.Info("pipeline started", "target", target)

	g, gctx := errgroup.WithContext(ctx)
	waitCtx, stopWaiting := context.WithCancel(gctx)
	defer stopWaiting()

	// When an actor returns, the next one downstream is released from its
	// queue; when the Batcher returns, nothing can increment the counter.
	run := func(name string, fn func(context.Context) error, done func()) {
		g.Go(func() error {
			defer done()
			if err := fn(gctx); err != nil {
				return &ActorError{Actor: name, Err: err}
			}
			return nil
		})
	}
	run(ActorProducer, producer.Run, st.Intake.Close)
	run(ActorTransformer, transformer.Run, st.Ready.Close)
	run(ActorBatcher, batcher.Run, stopWaiting)

	_, _ = st.Completed.WaitAtLeast(waitCtx, target)
	reached := st.Completed.Reached()
	if reached {
		c.logger.Info("target reached", "batches", st.Completed.Value())
	}

	st.Stop()
	actorErr := g.Wait()

	report := Report{
		Batches:       st.Completed.Value(),
		Produced:      producer.Produced(),
		Prepared:      transformer.Prepared(),
		Delivered:     batcher.Delivered(),
		PendingIntake: st.Intake.Len(),
		PendingReady:  st.Ready.Len(),
		Elapsed:       time.Since(start),
	}

	span.SetAttributes(
		attribute.Int64("pipeline.batches", int64(report.Batches)),
		attribute.Int64("pipeline.delivered", int64(report.Delivered)),
	)

	switch {
	case actorErr != nil:
		err = actorErr
	case reached:
		err = nil
	case ctx.Err() != nil:
		err = ctx.Err()
	default:
		err = ErrExhausted
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("pipeline interrupted", "error", err, "report", report.String())
		return report, err
	}

	c.logger.Info("pipeline stopped", "report", report.String())
	return report, nil
}

func (c *Coordinator) actors(st *State) (*source.Producer, *processor.Transformer, *batch.Batcher, error) {
	cfg := c.cfg

	selector := c.selector
	if selector == nil {
		kinds, err := cfg.ItemKinds()
		if err != nil {
			return nil, nil, nil, err
		}
		selector = source.Uniform(c.rand(streamKinds), kinds...)
	}

	producer, err := source.NewProducer(cfg.Producer, st.Intake, &st.Shutdown)
	if err != nil {
		return nil, nil, nil, err
	}
	producer.
		WithSelector(selector).
		WithDelayPolicy(delay.NewUniform(cfg.Producer.Delay, c.rand(streamOrderDelay))).
		WithSink(c.sink).
		WithLogger(c.logger.With("actor", ActorProducer))

	transformer, err := processor.NewTransformer(cfg.Transformer, st.Intake, st.Ready, &st.Shutdown)
	if err != nil {
		return nil, nil, nil, err
	}

	proc := processor.Processor(processor.WrapWithLogging(c.processor, c.logger, "kitchen"))
	if c.tracing {
		proc = processor.WrapWithTracing(proc, c.tracerProvider.Tracer(tracerName), "kitchen.prepare")
	}
	transformer.
		WithProcessor(proc).
		WithDelayPolicy(delay.NewUniform(cfg.Transformer.Delay, c.rand(streamPrepDelay))).
		WithSink(c.sink).
		WithLogger(c.logger.With("actor", ActorTransformer))

	batcher, err := batch.NewBatcher(cfg.Batcher, st.Ready, st.Completed, &st.Shutdown)
	if err != nil {
		return nil, nil, nil, err
	}
	batcher.
		WithSink(c.sink).
		WithLogger(c.logger.With("actor", ActorBatcher)).
		WithStats(c.stats).
		WithTracer(c.tracerProvider.Tracer(tracerName))

	if c.metrics != nil {
		producer.WithMetrics(c.metrics)
		transformer.WithMetrics(c.metrics)
		batcher.WithMetrics(c.metrics)
	}

	return producer, transformer, batcher, nil
}

// rand returns a generator for one consumer. With a zero seed every call
// returns an independently seeded generator.
func (c *Coordinator) rand(stream uint64) *rand.Rand {
	if c.cfg.Seed == 0 {
		return delay.NewRand(0)
	}
	return delay.NewRand(c.cfg.Seed + stream)
}

// IsInterrupted reports whether err came from a canceled or expired context.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
