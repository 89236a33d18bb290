package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventPublisher mirrors submitted assessments to an external system.
// Publishing is best-effort on every caller path; failures are logged and
// never affect the HTTP response.
type EventPublisher interface {
	PublishAssessmentSubmitted(ctx context.Context, event *AssessmentSubmittedEvent) error
	Close() error
}

// KafkaEventPublisher implements EventPublisher using Watermill with Kafka.
type KafkaEventPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topicName string
}

// PublisherConfig holds configuration for the Kafka event publisher.
type PublisherConfig struct {
	KafkaBrokers []string
	TopicName    string
	Logger       *slog.Logger
}

// NewKafkaEventPublisher creates a Kafka-backed publisher using Watermill.
func NewKafkaEventPublisher(config PublisherConfig) (*KafkaEventPublisher, error) {
	logger := watermill.NewSlogLogger(config.Logger)

	publisherConfig := kafka.PublisherConfig{
		Brokers:   config.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}

	publisher, err := kafka.NewPublisher(publisherConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return &KafkaEventPublisher{
		publisher: publisher,
		logger:    config.Logger,
		topicName: config.TopicName,
	}, nil
}

// PublishAssessmentSubmitted publishes a submitted-assessment event.
func (p *KafkaEventPublisher) PublishAssessmentSubmitted(ctx context.Context, event *AssessmentSubmittedEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal assessment event: %w", err)
	}

	msg := message.NewMessage(event.ID, eventBytes)
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("timestamp", event.Timestamp.Format(time.RFC3339))

	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		p.logger.Error("failed to publish assessment event",
			"event_id", event.ID,
			"error", err)
		return fmt.Errorf("failed to publish assessment event: %w", err)
	}

	p.logger.Debug("published assessment event",
		"event_id", event.ID,
		"topic", p.topicName)
	return nil
}

// Close closes the publisher and releases resources.
func (p *KafkaEventPublisher) Close() error {
	return p.publisher.Close()
}

// NoopEventPublisher is used when no Kafka brokers are configured.
type NoopEventPublisher struct{}

func (NoopEventPublisher) PublishAssessmentSubmitted(ctx context.Context, event *AssessmentSubmittedEvent) error {
	return nil
}

func (NoopEventPublisher) Close() error { return nil }

// MockEventPublisher records events in memory, for tests.
type MockEventPublisher struct {
	Events []AssessmentSubmittedEvent
}

func (m *MockEventPublisher) PublishAssessmentSubmitted(ctx context.Context, event *AssessmentSubmittedEvent) error {
	m.Events = append(m.Events, *event)
	return nil
}

func (m *MockEventPublisher) Close() error { return nil }
