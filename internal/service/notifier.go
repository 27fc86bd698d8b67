package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/omran-academy/academy-api/internal/models"
	"github.com/omran-academy/academy-api/pkg/jobs"
)

// NotificationSink delivers an operator-visible message somewhere a human
// will see it.
type NotificationSink interface {
	Deliver(ctx context.Context, n models.Notification) error
}

// LogSink writes notifications to the structured log. Destructive
// notifications are logged at warn level.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink constructs a LogSink.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Deliver implements NotificationSink.
func (s *LogSink) Deliver(ctx context.Context, n models.Notification) error {
	fields := []zap.Field{
		zap.String("title", n.Title),
		zap.String("body", n.Body),
		zap.String("severity", string(n.Severity)),
	}
	if n.Severity == models.SeverityDestructive {
		s.logger.Warn("notification", fields...)
		return nil
	}
	s.logger.Info("notification", fields...)
	return nil
}

// QueueNotifier dispatches notifications through the in-memory job queue.
// Publish never blocks the caller on sink failures.
type QueueNotifier struct {
	queue  *jobs.Queue[models.Notification]
	logger *zap.Logger
}

// NewQueueNotifier builds a notifier over the provided sink.
func NewQueueNotifier(sink NotificationSink, cfg jobs.QueueConfig) *QueueNotifier {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	queue := jobs.NewQueue[models.Notification]("notifications", sink.Deliver, cfg)
	return &QueueNotifier{queue: queue, logger: logger}
}

// Start begins dispatch workers.
func (n *QueueNotifier) Start(ctx context.Context) {
	n.queue.Start(ctx)
}

// Stop drains the workers.
func (n *QueueNotifier) Stop() {
	n.queue.Stop()
}

// Publish enqueues a notification, dropping it when the queue is
// unavailable. Delivery is fire-and-forget.
func (n *QueueNotifier) Publish(notification models.Notification) {
	if err := n.queue.Enqueue(notification); err != nil {
		n.logger.Warn("notification dropped", zap.String("title", notification.Title), zap.Error(err))
	}
}
