package processor

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MasterOfBinary/orderflow/item"
)

// TracingProcessor wraps another processor and records one span per item.
type TracingProcessor struct {
	// Processor is the wrapped processor that does the actual work.
	Processor Processor

	// Tracer starts the spans. If nil, no spans are recorded.
	Tracer trace.Tracer

	// SpanName names each span. Defaults to "processor.process".
	SpanName string
}

// Process implements the Processor interface.
func (p *TracingProcessor) Process(ctx context.Context, it item.Item) item.Item {
	if p.Processor == nil {
		return it
	}
	if p.Tracer == nil {
		return p.Processor.Process(ctx, it)
	}

	name := p.SpanName
	if name == "" {
		name = "processor.process"
	}

	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(
		attribute.Int64("item.seq", int64(it.Seq)),
		attribute.String("item.kind", it.Kind.String()),
		attribute.String("item.id", it.ID.String()),
	))
	defer span.End()

	return p.Processor.Process(ctx, it)
}

// WrapWithTracing wraps a processor so each call is recorded as a span.
func WrapWithTracing(proc Processor, tracer trace.Tracer, spanName string) *TracingProcessor {
	return &TracingProcessor{
		Processor: proc,
		Tracer:    tracer,
		SpanName:  spanName,
	}
}
