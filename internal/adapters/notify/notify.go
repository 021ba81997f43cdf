// Package notify provides Notifier and EventPublisher adapters for
// deployments where the real collaborators (email/SMS sender, Kafka) are not
// wired. Both log instead of delivering.
package notify

import (
	"context"
	"log/slog"

	portssvc "github.com/vuthy55/roomledger/internal/core/ports/services"
)

// LogNotifier writes notifications to the structured log. The production
// email/SMS sender is an external collaborator behind the same interface.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

var _ portssvc.Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) Notify(_ context.Context, userID, message string) error {
	n.logger.Info("notification", slog.String("user_id", userID), slog.String("message", message))
	return nil
}

// LogPublisher stands in for the Kafka publisher when no brokers are
// configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

var _ portssvc.EventPublisher = (*LogPublisher)(nil)

func (p *LogPublisher) Publish(_ context.Context, topic string, event any) error {
	p.logger.Info("event", slog.String("topic", topic), slog.Any("payload", event))
	return nil
}
