package events

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/cloudevents"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/kafka"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
)

// KafkaEventPublisher publishes domain events as CloudEvents
type KafkaEventPublisher struct {
	producer     kafka.EventPublisher
	eventFactory *cloudevents.EventFactory
	logger       *logging.Logger
}

// NewKafkaEventPublisher creates a new KafkaEventPublisher
func NewKafkaEventPublisher(producer kafka.EventPublisher, eventFactory *cloudevents.EventFactory, logger *logging.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer:     producer,
		eventFactory: eventFactory,
		logger:       logger.WithComponent("events"),
	}
}

// Publish publishes a single event
func (p *KafkaEventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	ce := p.eventFactory.CreateEvent(ctx, event.EventType(), Subject(event), event)
	if err := p.producer.PublishEvent(ctx, Topic(event), ce); err != nil {
		return fmt.Errorf("failed to publish %s for %s: %w", event.EventType(), event.AggregateID(), err)
	}
	return nil
}

// PublishAll publishes events in order. Every event is attempted; the
// returned error joins the failures.
func (p *KafkaEventPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	var errs []error
	for _, event := range events {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// Close closes the underlying producer
func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}

// Topic returns the topic an event is published to
func Topic(event domain.DomainEvent) string {
	if strings.HasPrefix(event.EventType(), "station.delivery.") {
		return kafka.Topics.DeliveryEvents
	}
	return kafka.Topics.InventoryEvents
}

// Subject returns the CloudEvents subject of an event
func Subject(event domain.DomainEvent) string {
	if Topic(event) == kafka.Topics.DeliveryEvents {
		return "delivery/" + event.AggregateID()
	}
	return "inventory/" + event.AggregateID()
}

// LogEventPublisher writes events to the log when no broker is configured
type LogEventPublisher struct {
	logger *logging.Logger
}

// NewLogEventPublisher creates a new LogEventPublisher
func NewLogEventPublisher(logger *logging.Logger) *LogEventPublisher {
	return &LogEventPublisher{logger: logger.WithComponent("events")}
}

// Publish logs a single event
func (p *LogEventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	p.logger.Event(ctx, event.EventType(), map[string]any{
		"aggregateId": event.AggregateID(),
		"topic":       Topic(event),
		"occurredAt":  event.OccurredAt(),
	})
	return nil
}

// PublishAll logs events in order
func (p *LogEventPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	for _, event := range events {
		_ = p.Publish(ctx, event)
	}
	return nil
}
