// Package kafka publishes engine lifecycle events for downstream consumers
// (billing exports, analytics). Publishing is strictly post-commit and
// fire-and-forget: a broker failure must never affect a financial write.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	portssvc "github.com/vuthy55/roomledger/internal/core/ports/services"
)

type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher writing to the given brokers. The topic is
// set per message so one writer serves all engine events.
func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
	}
}

var _ portssvc.EventPublisher = (*Publisher)(nil)

func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event for topic %s: %w", topic, err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: data,
	})
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
