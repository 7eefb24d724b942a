package capture

import (
	"context"
	"log/slog"
)

// SlogAdapter mirrors captured events into an slog.Logger at debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event as a single "console" record.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("kind", event.Kind.String()),
	}
	if event.Port != "" {
		attrs = append(attrs, slog.String("port", event.Port))
	}
	if event.Kind != KindBegin {
		attrs = append(attrs, slog.String("text", event.Text), slog.Int("size", len(event.Text)))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "console", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
