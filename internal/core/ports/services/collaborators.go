package services

import "context"

// Notifier delivers user-facing notifications. Called only after the
// enclosing store transaction has committed so that a delivery failure can
// never roll back a financial write; errors are logged, not propagated.
type Notifier interface {
	Notify(ctx context.Context, userID, message string) error
}

// EventPublisher emits lifecycle events (room closed, ledger adjusted) for
// downstream consumers. Fire-and-forget, post-commit only.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event any) error
}

// Topics published by the engine.
const (
	TopicRoomClosed     = "room.closed"
	TopicLedgerAdjusted = "ledger.adjusted"
)
