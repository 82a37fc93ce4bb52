package pipeline

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/MasterOfBinary/orderflow/batch"
	"github.com/MasterOfBinary/orderflow/logger"
	"github.com/MasterOfBinary/orderflow/processor"
	"github.com/MasterOfBinary/orderflow/sink"
	"github.com/MasterOfBinary/orderflow/source"
)

// Metrics is implemented by recorders that serve all three actors, such as
// metrics.Pipeline.
type Metrics interface {
	source.Metrics
	processor.Metrics
	batch.Metrics
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSink sets the sink that receives the events of every actor.
func WithSink(s sink.Sink) Option {
	return func(c *Coordinator) {
		if s != nil {
			c.sink = s
		}
	}
}

// WithLogger sets the logger passed to the Coordinator and its actors.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger.OrDiscard(l)
	}
}

// WithMetrics sets the recorder passed to every actor.
func WithMetrics(m Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// WithStats sets the collector for batch statistics.
func WithStats(s batch.StatsCollector) Option {
	return func(c *Coordinator) {
		c.stats = s
	}
}

// WithTracerProvider enables spans for each run, each prepared item, and
// each delivered batch.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Coordinator) {
		c.tracerProvider = tp
		c.tracing = tp != nil
	}
}

// WithSelector replaces the kind selector built from the configuration.
func WithSelector(s source.Selector) Option {
	return func(c *Coordinator) {
		c.selector = s
	}
}

// WithProcessor sets the Processor the Transformer applies to each item.
func WithProcessor(p processor.Processor) Option {
	return func(c *Coordinator) {
		c.processor = p
	}
}
