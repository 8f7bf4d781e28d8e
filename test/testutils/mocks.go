// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/mealplan"
	"github.com/mealprep/pantrymatch/internal/domain/pantry"
	"github.com/mealprep/pantrymatch/internal/domain/recipe"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

// MockRecipeRepository provides a mock implementation of RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) Create(ctx context.Context, r *recipe.Recipe) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRecipeRepository) Update(ctx context.Context, r *recipe.Recipe) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*recipe.Recipe); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecipeRepository) FindAll(ctx context.Context) ([]*recipe.Recipe, error) {
	args := m.Called(ctx)
	if rs, ok := args.Get(0).([]*recipe.Recipe); ok {
		return rs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecipeRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecipeRepository) BulkCreate(ctx context.Context, recipes []*recipe.Recipe) error {
	return m.Called(ctx, recipes).Error(0)
}

func (m *MockRecipeRepository) Fingerprint(ctx context.Context) (outbound.CatalogFingerprint, error) {
	args := m.Called(ctx)
	return args.Get(0).(outbound.CatalogFingerprint), args.Error(1)
}

// MockPantryRepository provides a mock implementation of PantryRepository
type MockPantryRepository struct {
	mock.Mock
}

func (m *MockPantryRepository) Save(ctx context.Context, ing *pantry.Ingredient) error {
	return m.Called(ctx, ing).Error(0)
}

func (m *MockPantryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPantryRepository) FindByID(ctx context.Context, id uuid.UUID) (*pantry.Ingredient, error) {
	args := m.Called(ctx, id)
	if ing, ok := args.Get(0).(*pantry.Ingredient); ok {
		return ing, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPantryRepository) FindByName(ctx context.Context, name string) (*pantry.Ingredient, error) {
	args := m.Called(ctx, name)
	if ing, ok := args.Get(0).(*pantry.Ingredient); ok {
		return ing, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPantryRepository) FindAll(ctx context.Context) ([]*pantry.Ingredient, error) {
	args := m.Called(ctx)
	if items, ok := args.Get(0).([]*pantry.Ingredient); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMealPlanRepository provides a mock implementation of MealPlanRepository
type MockMealPlanRepository struct {
	mock.Mock
}

func (m *MockMealPlanRepository) Save(ctx context.Context, plan *mealplan.MealPlan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *MockMealPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*mealplan.MealPlan); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMealPlanRepository) FindBetween(ctx context.Context, from, to time.Time) ([]*mealplan.MealPlan, error) {
	args := m.Called(ctx, from, to)
	if ps, ok := args.Get(0).([]*mealplan.MealPlan); ok {
		return ps, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCacheRepository provides a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if b, ok := args.Get(0).([]byte); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) DeletePrefix(ctx context.Context, prefix string) error {
	return m.Called(ctx, prefix).Error(0)
}

// MockNutritionProvider provides a mock implementation of NutritionProvider
type MockNutritionProvider struct {
	mock.Mock
}

func (m *MockNutritionProvider) SearchFoods(ctx context.Context, query string) ([]outbound.FoodSummary, error) {
	args := m.Called(ctx, query)
	if foods, ok := args.Get(0).([]outbound.FoodSummary); ok {
		return foods, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNutritionProvider) FoodNutrients(ctx context.Context, query string) (*outbound.FoodNutrients, error) {
	args := m.Called(ctx, query)
	if food, ok := args.Get(0).(*outbound.FoodNutrients); ok {
		return food, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRecipeGenerator provides a mock implementation of RecipeGenerator
type MockRecipeGenerator struct {
	mock.Mock
}

func (m *MockRecipeGenerator) GenerateRecipe(ctx context.Context, foodItems []string) (*outbound.GeneratedRecipe, error) {
	args := m.Called(ctx, foodItems)
	if g, ok := args.Get(0).(*outbound.GeneratedRecipe); ok {
		return g, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMessageBus records published messages instead of delivering them
type MockMessageBus struct {
	mu        sync.Mutex
	published map[string][]outbound.Message
}

func NewMockMessageBus() *MockMessageBus {
	return &MockMessageBus{published: make(map[string][]outbound.Message)}
}

func (m *MockMessageBus) Publish(ctx context.Context, topic string, message outbound.Message) error {
	return m.PublishBatch(ctx, topic, []outbound.Message{message})
}

func (m *MockMessageBus) PublishBatch(_ context.Context, topic string, messages []outbound.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published[topic] = append(m.published[topic], messages...)
	return nil
}

func (m *MockMessageBus) Subscribe(context.Context, string, outbound.MessageHandler) error {
	return nil
}

func (m *MockMessageBus) Unsubscribe(context.Context, string) error {
	return nil
}

// Types returns the message types published on topic, in order
func (m *MockMessageBus) Types(topic string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.published[topic]))
	for _, msg := range m.published[topic] {
		out = append(out, msg.Type)
	}
	return out
}

// MockMetrics records business metrics calls
type MockMetrics struct {
	mu           sync.Mutex
	MatchSources []string
	CacheOps     []string
	Created      []string
	External     []string
}

func (m *MockMetrics) RecordMatchRequest(source string, _ time.Duration, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchSources = append(m.MatchSources, source)
}

func (m *MockMetrics) RecordCacheOperation(operation, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheOps = append(m.CacheOps, operation+":"+status)
}

func (m *MockMetrics) RecordRecipeCreated(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created = append(m.Created, source)
}

func (m *MockMetrics) RecordExternalRequest(service, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.External = append(m.External, service+":"+status)
}
