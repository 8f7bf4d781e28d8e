// Package eventing turns drained domain events into message bus messages.
package eventing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/shared"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"go.uber.org/zap"
)

// Publisher serializes domain events and publishes them on a topic
type Publisher struct {
	bus    outbound.MessageBus
	logger *zap.Logger
}

// NewPublisher creates a publisher. A nil bus drops events.
func NewPublisher(bus outbound.MessageBus, logger *zap.Logger) *Publisher {
	return &Publisher{bus: bus, logger: logger.Named("event-publisher")}
}

// ToMessage serializes a domain event as a JSON message
func ToMessage(event shared.DomainEvent) (outbound.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return outbound.Message{}, fmt.Errorf("marshal %s: %w", event.EventName(), err)
	}
	return outbound.Message{
		ID:        uuid.NewString(),
		Type:      event.EventName(),
		Payload:   payload,
		Timestamp: event.OccurredAt(),
	}, nil
}

// Publish sends events on topic. Failures are logged, not returned:
// the state change they describe has already been stored.
func (p *Publisher) Publish(ctx context.Context, topic string, events []shared.DomainEvent) {
	if p == nil || p.bus == nil || len(events) == 0 {
		return
	}

	messages := make([]outbound.Message, 0, len(events))
	for _, event := range events {
		msg, err := ToMessage(event)
		if err != nil {
			p.logger.Error("Failed to serialize event",
				zap.String("event", event.EventName()),
				zap.Error(err),
			)
			continue
		}
		messages = append(messages, msg)
	}

	if err := p.bus.PublishBatch(ctx, topic, messages); err != nil {
		p.logger.Error("Failed to publish events",
			zap.String("topic", topic),
			zap.Int("count", len(messages)),
			zap.Error(err),
		)
	}
}
