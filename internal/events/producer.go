// Package events publishes entity change notifications to Kafka after a
// mutation commits.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/guttosm/etmarket/internal/logger"
)

// Entities that emit change events.
const (
	EntityCompany   = "company"
	EntityFinancial = "financial"
	EntityStock     = "stock"
	EntityMacro     = "macro"
)

// Actions carried in the event type, e.g. COMPANY_CREATED.
const (
	ActionCreated      = "CREATED"
	ActionUpdated      = "UPDATED"
	ActionDeleted      = "DELETED"
	ActionBatchCreated = "BATCH_CREATED"
	ActionIngested     = "INGESTED"
)

// Event is the JSON value written to the topic. The message key is Entity:EntityID.
type Event struct {
	EventType string    `json:"event_type"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id,omitempty"`
	Count     int       `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// NewEvent builds an event stamped with the current UTC time.
func NewEvent(entity, action, id string, payload any) Event {
	return Event{
		EventType: strings.ToUpper(entity) + "_" + action,
		Entity:    entity,
		EntityID:  id,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// Publisher is implemented by Producer and NopPublisher.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes events to a single Kafka topic.
type Producer struct {
	writer messageWriter
	topic  string
}

// NewProducer creates an asynchronous Kafka producer. Publish only enqueues;
// delivery failures are logged by reportDelivery and Close flushes what is pending.
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion:             reportDelivery,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// Publish marshals the event and writes it keyed by entity and id.
func (p *Producer) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Entity + ":" + event.EntityID),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// reportDelivery logs events the writer failed to deliver.
func reportDelivery(msgs []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, m := range msgs {
		logger.L().Warn().Err(err).Str("topic", m.Topic).Str("key", string(m.Key)).Msg("event delivery failed")
	}
}

// Close flushes pending events and closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// NopPublisher discards events; used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// New returns a Producer when brokers are set, otherwise a NopPublisher.
func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}
	return NewProducer(brokers, topic)
}
