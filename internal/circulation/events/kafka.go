package events

import (
	"context"
	"fmt"

	"circulation/pkg/kafka"
	"circulation/pkg/middleware"
)

// batchPublisher is the part of kafka.Producer the publisher needs.
type batchPublisher interface {
	PublishBatch(ctx context.Context, messages []kafka.Message) error
	Close() error
}

// KafkaPublisher writes events keyed by asset id, so every event of an asset
// lands on one partition in commit order.
type KafkaPublisher struct {
	producer batchPublisher
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evts ...Event) error {
	if len(evts) == 0 {
		return nil
	}

	correlationID := middleware.RequestIDFromContext(ctx)
	messages := make([]kafka.Message, 0, len(evts))
	for _, e := range evts {
		msg, err := kafka.NewMessage().
			WithKey(e.AssetID).
			WithEventID(e.ID).
			WithEventType(string(e.Type)).
			WithCorrelationID(correlationID).
			WithSchemaVersion(SchemaVersion).
			WithSource(p.source).
			WithTimestamp(e.OccurredAt).
			WithValue(e).
			Build()
		if err != nil {
			return fmt.Errorf("failed to encode %s event: %w", e.Type, err)
		}
		messages = append(messages, msg)
	}

	return p.producer.PublishBatch(ctx, messages)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
