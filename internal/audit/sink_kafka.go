package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"meetingintel/internal/platform/kafka/producer"
)

// KafkaSink publishes request-log events to a Kafka topic, one JSON record
// per event keyed by caller identity so per-caller history stays in order.
type KafkaSink struct {
	producer *producer.Producer
	topic    string
}

// NewKafkaSink wires a sink on top of an existing producer.
func NewKafkaSink(p *producer.Producer, topic string) *KafkaSink {
	return &KafkaSink{producer: p, topic: topic}
}

// Publish implements Sink.
func (s *KafkaSink) Publish(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal request-log event: %w", err)
	}

	return s.producer.Produce(ctx, &producer.Message{
		Topic: s.topic,
		Key:   []byte(e.CallerID),
		Value: value,
	})
}
