// Package messaging delivers message bus traffic between components of
// the same process
package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"go.uber.org/zap"
)

// ErrClosed is returned by Publish after Close
var ErrClosed = errors.New("message bus is closed")

// Bus is an in-process outbound.MessageBus. Handlers run synchronously on
// the publishing goroutine in subscription order, so a publisher returns
// only after every subscriber has seen the message.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]outbound.MessageHandler
	closed   bool
	logger   *zap.Logger
}

// NewBus creates an empty bus
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]outbound.MessageHandler),
		logger:   logger.Named("message-bus"),
	}
}

var _ outbound.MessageBus = (*Bus)(nil)

// Publish delivers message to every handler of topic. A failing handler
// does not stop delivery to the others; all failures are returned joined.
func (b *Bus) Publish(ctx context.Context, topic string, message outbound.Message) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrClosed
	}
	handlers := append([]outbound.MessageHandler(nil), b.handlers[topic]...)
	b.mu.RUnlock()

	var errs []error
	for _, handle := range handlers {
		if err := handle(ctx, message); err != nil {
			b.logger.Error("Message handler failed",
				zap.String("topic", topic),
				zap.String("type", message.Type),
				zap.String("message_id", message.ID),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s handler: %w", topic, err))
		}
	}
	return errors.Join(errs...)
}

// PublishBatch publishes messages in order
func (b *Bus) PublishBatch(ctx context.Context, topic string, messages []outbound.Message) error {
	var errs []error
	for _, msg := range messages {
		if err := b.Publish(ctx, topic, msg); err != nil {
			if errors.Is(err, ErrClosed) {
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribe adds handler to topic
func (b *Bus) Subscribe(ctx context.Context, topic string, handler outbound.MessageHandler) error {
	if handler == nil {
		return errors.New("handler is nil")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
	b.logger.Debug("Subscribed", zap.String("topic", topic), zap.Int("handlers", len(b.handlers[topic])))
	return nil
}

// Unsubscribe removes every handler of topic
func (b *Bus) Unsubscribe(ctx context.Context, topic string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, topic)
	return nil
}

// Close drops all handlers and rejects further publishing
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = make(map[string][]outbound.MessageHandler)
}
