package gateways

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/giovaniif/e-commerce/catalog/domain/item"
	"github.com/giovaniif/e-commerce/catalog/infra/tracing"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type EventPublisherKafka struct {
	writer messageWriter
}

func NewEventPublisherKafka(brokers []string, topic string) *EventPublisherKafka {
	return &EventPublisherKafka{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish writes one message per event, keyed by item name so that changes
// to the same item land on the same partition.
func (p *EventPublisherKafka) Publish(ctx context.Context, events ...item.Event) error {
	if len(events) == 0 {
		return nil
	}
	traceHeaders := tracing.InjectMap(ctx)

	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("kafka marshal: %w", err)
		}
		headers := []kafka.Header{{Key: "event-type", Value: []byte(event.Type)}}
		for k, v := range traceHeaders {
			headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
		}
		messages = append(messages, kafka.Message{
			Key:     []byte(event.Item.Name),
			Value:   value,
			Headers: headers,
			Time:    event.OccurredAt,
		})
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (p *EventPublisherKafka) Close() error {
	return p.writer.Close()
}
