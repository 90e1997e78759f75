// Package events publishes session lifecycle events. The default transport is
// an in-process pub/sub; deployments with a broker configured publish to
// Kafka instead. Publishing is best-effort: callers log failures and move on.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type EventType string

const (
	EventSessionCreated   EventType = "session.created"
	EventSessionCompleted EventType = "session.completed"
	EventTurnScored       EventType = "turn.scored"
)

// SessionEvent is the JSON payload published for every lifecycle change.
type SessionEvent struct {
	Type       EventType `json:"type"`
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id"`
	JobRole    string    `json:"job_role"`
	Score      *int      `json:"score,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	PublishSessionEvent(event SessionEvent) error
	Close() error
}

type watermillPublisher struct {
	publisher message.Publisher
	topic     string
	logger    *slog.Logger
}

// NewGoChannelPublisher builds the in-process publisher used when no broker
// is configured.
func NewGoChannelPublisher(topic string, logger *slog.Logger) EventPublisher {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))
	return &watermillPublisher{publisher: pubSub, topic: topic, logger: logger}
}

// NewKafkaPublisher builds a Kafka-backed publisher for the given brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (EventPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}
	return &watermillPublisher{publisher: publisher, topic: topic, logger: logger}, nil
}

func (p *watermillPublisher) PublishSessionEvent(event SessionEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", string(event.Type))

	return p.publisher.Publish(p.topic, msg)
}

func (p *watermillPublisher) Close() error {
	return p.publisher.Close()
}
