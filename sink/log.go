package sink

import (
	"context"
	"log/slog"
)

// Log is a Sink that writes each event as a structured log record. slog
// handlers serialize their own writes, so Log adds no locking.
type Log struct {
	Logger *slog.Logger

	// Level is the level events are logged at. The zero value is Info.
	Level slog.Level
}

// NewLog returns a Log sink that logs at Info level.
func NewLog(logger *slog.Logger) *Log {
	return &Log{Logger: logger, Level: slog.LevelInfo}
}

// Emit implements Sink.
func (l *Log) Emit(e Event) {
	if l.Logger == nil {
		return
	}

	attrs := []slog.Attr{
		slog.String("kind", e.Item.Kind.String()),
		slog.Uint64("seq", e.Item.Seq),
		slog.String("item_id", e.Item.ID.String()),
	}
	if e.Type == Delivered {
		attrs = append(attrs, slog.Uint64("batch", e.Batch))
	}

	l.Logger.LogAttrs(context.Background(), l.Level, "item "+e.Type.String(), attrs...)
}
