// Package events publishes assignment lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Lifecycle event types.
const (
	TypeAssignmentCreated     = "assignment.created"
	TypeAssignmentDistributed = "assignment.distributed"
	TypeAssignmentSubmitted   = "assignment.submitted"
	TypeBatchCreated          = "batch.created"
)

// Event is the message body written to the lifecycle topic.
type Event struct {
	Type       string                 `json:"type"`
	ActorID    string                 `json:"actor_id,omitempty"`
	Resource   string                 `json:"resource"`
	ResourceID string                 `json:"resource_id"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Publisher delivers lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes events to a single Kafka topic keyed by resource id.
type Producer struct {
	writer messageWriter
	topic  string
}

// NewProducer builds a synchronous Kafka producer for the given topic.
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return &Producer{writer: writer, topic: topic}
}

// Topic returns the destination topic.
func (p *Producer) Topic() string {
	return p.topic
}

// Publish marshals the event and writes it; events for one resource share a partition.
func (p *Producer) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.ResourceID),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write %s event: %w", event.Type, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }
