// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/mealplan"
	"github.com/mealprep/pantrymatch/internal/domain/pantry"
	"github.com/mealprep/pantrymatch/internal/domain/recipe"
)

// ErrNotFound is returned by repositories when a record does not exist
var ErrNotFound = errors.New("record not found")

// ErrCacheMiss is returned by caches when a key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

// RecipeRepository defines the interface for recipe catalog persistence
type RecipeRepository interface {
	Create(ctx context.Context, recipe *recipe.Recipe) error
	Update(ctx context.Context, recipe *recipe.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)

	// FindAll returns the whole catalog ordered by creation time, then ID
	FindAll(ctx context.Context) ([]*recipe.Recipe, error)
	Count(ctx context.Context) (int64, error)
	BulkCreate(ctx context.Context, recipes []*recipe.Recipe) error

	// Fingerprint changes whenever the catalog contents change
	Fingerprint(ctx context.Context) (CatalogFingerprint, error)
}

// CatalogFingerprint identifies a catalog state for cache keys
type CatalogFingerprint struct {
	Count         int64
	LastUpdatedAt time.Time
}

// PantryRepository defines the interface for pantry persistence
type PantryRepository interface {
	Save(ctx context.Context, ingredient *pantry.Ingredient) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*pantry.Ingredient, error)
	// FindByName matches on pantry.NormalizeName
	FindByName(ctx context.Context, name string) (*pantry.Ingredient, error)
	// FindAll returns ingredients ordered by date added, then ID
	FindAll(ctx context.Context) ([]*pantry.Ingredient, error)
}

// MealPlanRepository defines the interface for meal plan persistence
type MealPlanRepository interface {
	Save(ctx context.Context, plan *mealplan.MealPlan) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error)
	// FindBetween returns plans with from <= date < to, ordered by date
	FindBetween(ctx context.Context, from, to time.Time) ([]*mealplan.MealPlan, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error
}

// MessageBus defines the interface for publishing messages
type MessageBus interface {
	Publish(ctx context.Context, topic string, message Message) error
	PublishBatch(ctx context.Context, topic string, messages []Message) error
	Subscribe(ctx context.Context, topic string, handler MessageHandler) error
	Unsubscribe(ctx context.Context, topic string) error
}

// Message represents a message to be published
type Message struct {
	ID        string
	Type      string
	Payload   []byte
	Metadata  map[string]string
	Timestamp time.Time
}

// MessageHandler handles incoming messages
type MessageHandler func(ctx context.Context, message Message) error

// Topics used on the message bus
const (
	TopicRecipes  = "recipes"
	TopicPantry   = "pantry"
	TopicMealPlan = "mealplans"
)
