package eventing

import (
	"context"
	"fmt"

	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"go.uber.org/zap"
)

// InvalidatePrefix returns a handler that drops every cache key under
// prefix whenever a message arrives. A nil cache makes it a no-op.
func InvalidatePrefix(cache outbound.CacheRepository, prefix string, logger *zap.Logger) outbound.MessageHandler {
	logger = logger.Named("cache-invalidator")
	return func(ctx context.Context, msg outbound.Message) error {
		if cache == nil {
			return nil
		}
		if err := cache.DeletePrefix(ctx, prefix); err != nil {
			return fmt.Errorf("invalidate %q after %s: %w", prefix, msg.Type, err)
		}
		logger.Debug("Invalidated cache entries",
			zap.String("prefix", prefix),
			zap.String("event", msg.Type),
		)
		return nil
	}
}

// Subscribe registers handler on every topic
func Subscribe(ctx context.Context, bus outbound.MessageBus, handler outbound.MessageHandler, topics ...string) error {
	for _, topic := range topics {
		if err := bus.Subscribe(ctx, topic, handler); err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}
	return nil
}
