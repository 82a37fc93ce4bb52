package processor

import (
	"context"

	"github.com/MasterOfBinary/orderflow/item"
)

// Processor prepares a single item. It may return a modified copy but must
// keep the item's ID and Seq, which downstream ordering relies on.
//
// Preparation cannot fail: there is no error return. A Processor should
// return promptly; the Transformer models preparation time separately.
type Processor interface {
	Process(ctx context.Context, it item.Item) item.Item
}

// Func adapts an ordinary function to the Processor interface.
type Func func(ctx context.Context, it item.Item) item.Item

// Process implements Processor.
func (f Func) Process(ctx context.Context, it item.Item) item.Item {
	return f(ctx, it)
}

// Identity is a Processor that returns items unchanged.
var Identity Processor = Func(func(_ context.Context, it item.Item) item.Item {
	return it
})

// Chain returns a Processor that runs each non-nil processor in order,
// passing each one the previous one's output.
//
// Example:
//
//	p := processor.Chain(
//		processor.WrapWithLogging(garnish, logger, "garnish"),
//		processor.WrapWithTracing(plate, tracer, "plate"),
//	)
func Chain(procs ...Processor) Processor {
	filtered := make([]Processor, 0, len(procs))
	for _, p := range procs {
		if p != nil {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 {
		return Identity
	}
	return chain(filtered)
}

type chain []Processor

func (c chain) Process(ctx context.Context, it item.Item) item.Item {
	for _, p := range c {
		it = p.Process(ctx, it)
	}
	return it
}
