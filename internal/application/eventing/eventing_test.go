package eventing_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/application/eventing"
	"github.com/mealprep/pantrymatch/internal/domain/recipe"
	"github.com/mealprep/pantrymatch/internal/domain/shared"
	"github.com/mealprep/pantrymatch/internal/infrastructure/messaging"
	"github.com/mealprep/pantrymatch/internal/infrastructure/persistence/memory"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	bus := messaging.NewBus(zap.NewNop())
	var got []outbound.Message
	require.NoError(t, bus.Subscribe(ctx, outbound.TopicRecipes, func(_ context.Context, msg outbound.Message) error {
		got = append(got, msg)
		return nil
	}))

	id := uuid.New()
	created := recipe.RecipeCreatedEvent{RecipeID: id, Name: "Soup", Source: recipe.SourceManual, CreatedAt: time.Now().UTC()}
	eventing.NewPublisher(bus, zap.NewNop()).Publish(ctx, outbound.TopicRecipes, []shared.DomainEvent{created})

	require.Len(t, got, 1)
	assert.Equal(t, created.EventName(), got[0].Type)
	assert.NotEmpty(t, got[0].ID)

	var decoded recipe.RecipeCreatedEvent
	require.NoError(t, json.Unmarshal(got[0].Payload, &decoded))
	assert.Equal(t, id, decoded.RecipeID)
	assert.Equal(t, "Soup", decoded.Name)
}

func TestPublisher_NilBusDropsEvents(t *testing.T) {
	assert.NotPanics(t, func() {
		eventing.NewPublisher(nil, zap.NewNop()).Publish(context.Background(), outbound.TopicPantry,
			[]shared.DomainEvent{recipe.RecipeDeletedEvent{RecipeID: uuid.New(), DeletedAt: time.Now()}})
	})
}

func TestInvalidatePrefix(t *testing.T) {
	ctx := context.Background()
	cache := memory.NewCacheRepository()
	defer cache.Close()
	require.NoError(t, cache.Set(ctx, "matches:a", []byte("1"), time.Minute))
	require.NoError(t, cache.Set(ctx, "matches:b", []byte("2"), time.Minute))
	require.NoError(t, cache.Set(ctx, "generated:c", []byte("3"), time.Minute))

	bus := messaging.NewBus(zap.NewNop())
	handler := eventing.InvalidatePrefix(cache, "matches:", zap.NewNop())
	require.NoError(t, eventing.Subscribe(ctx, bus, handler, outbound.TopicRecipes, outbound.TopicPantry))

	require.NoError(t, bus.Publish(ctx, outbound.TopicPantry, outbound.Message{ID: "1", Type: "pantry.ingredient_added"}))

	exists, err := cache.Exists(ctx, "matches:a")
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = cache.Exists(ctx, "generated:c")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.NoError(t, eventing.InvalidatePrefix(nil, "matches:", zap.NewNop())(ctx, outbound.Message{}))
}
