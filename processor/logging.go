package processor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MasterOfBinary/orderflow/item"
)

// LoggingProcessor wraps another processor and logs each item it handles.
type LoggingProcessor struct {
	// Processor is the wrapped processor that does the actual work.
	Processor Processor

	// Logger is used to log processing events.
	// If nil, no logging occurs.
	Logger *slog.Logger

	// Name is an optional name for this processor used in log messages.
	// If empty, the wrapped processor's type is used.
	Name string
}

// Process implements the Processor interface by delegating to the wrapped
// processor and logging the call at debug level.
func (p *LoggingProcessor) Process(ctx context.Context, it item.Item) item.Item {
	if p.Processor == nil {
		return it
	}
	if p.Logger == nil {
		return p.Processor.Process(ctx, it)
	}

	name := p.Name
	if name == "" {
		name = fmt.Sprintf("%T", p.Processor)
	}

	start := time.Now()
	out := p.Processor.Process(ctx, it)

	p.Logger.DebugContext(ctx, "processor finished",
		"processor", name,
		"seq", it.Seq,
		"kind", out.Kind.String(),
		"duration", time.Since(start),
	)
	return out
}

// WrapWithLogging wraps a processor with logging.
//
// Example:
//
//	logger := logger.New(os.Stderr, slog.LevelDebug, logger.FormatText)
//	wrapped := processor.WrapWithLogging(myProcessor, logger, "MyProcessor")
func WrapWithLogging(proc Processor, logger *slog.Logger, name string) *LoggingProcessor {
	return &LoggingProcessor{
		Processor: proc,
		Logger:    logger,
		Name:      name,
	}
}
