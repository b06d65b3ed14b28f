package itinerary

import (
	"context"
	"log/slog"
)

// Notifier receives user-visible progress events emitted while an itinerary
// is being assembled. Implementations must not block generation.
type Notifier interface {
	Progress(ctx context.Context, message string)
	Success(ctx context.Context, message string)
	Failure(ctx context.Context, message string)
}

var _ Notifier = (*SlogNotifier)(nil)

// SlogNotifier is the default sink: it records lifecycle events on the
// structured log.
type SlogNotifier struct {
	logger *slog.Logger
}

func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger}
}

func (n *SlogNotifier) Progress(ctx context.Context, message string) {
	n.logger.InfoContext(ctx, message, slog.String("event", "progress"))
}

func (n *SlogNotifier) Success(ctx context.Context, message string) {
	n.logger.InfoContext(ctx, message, slog.String("event", "success"))
}

func (n *SlogNotifier) Failure(ctx context.Context, message string) {
	n.logger.WarnContext(ctx, message, slog.String("event", "failure"))
}
