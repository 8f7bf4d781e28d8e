// Package ai wraps recipe generators with result caching
package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"go.uber.org/zap"
)

// CachePrefix prefixes every cached generated recipe
const CachePrefix = "generated:"

// CachedGenerator serves repeated generation requests for the same food
// items from the cache. Only model answers are cached, never fallbacks.
type CachedGenerator struct {
	next    outbound.RecipeGenerator
	cache   outbound.CacheRepository
	ttl     time.Duration
	metrics outbound.MetricsRecorder
	logger  *zap.Logger
}

// NewCachedGenerator wraps next. A ttl <= 0 means 24h.
func NewCachedGenerator(next outbound.RecipeGenerator, cache outbound.CacheRepository, ttl time.Duration, metrics outbound.MetricsRecorder, logger *zap.Logger) *CachedGenerator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if metrics == nil {
		metrics = outbound.NopMetrics{}
	}
	return &CachedGenerator{
		next:    next,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger.Named("cached-generator"),
	}
}

var _ outbound.RecipeGenerator = (*CachedGenerator)(nil)

// GenerateRecipe implements outbound.RecipeGenerator
func (c *CachedGenerator) GenerateRecipe(ctx context.Context, foodItems []string) (*outbound.GeneratedRecipe, error) {
	key := CacheKey(foodItems)

	data, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var cached outbound.GeneratedRecipe
		if jerr := json.Unmarshal(data, &cached); jerr == nil {
			c.metrics.RecordCacheOperation("generate", "hit")
			cached.DetectedItems = append([]string(nil), foodItems...)
			return &cached, nil
		}
		c.logger.Warn("Discarding undecodable cached recipe", zap.String("key", key))
	case errors.Is(err, outbound.ErrCacheMiss):
		c.metrics.RecordCacheOperation("generate", "miss")
	default:
		c.metrics.RecordCacheOperation("generate", "error")
		c.logger.Warn("Generated recipe cache read failed", zap.Error(err))
	}

	recipe, err := c.next.GenerateRecipe(ctx, foodItems)
	if err != nil || !recipe.Generated {
		return recipe, err
	}

	if data, err := json.Marshal(recipe); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Error("Failed to cache generated recipe", zap.Error(err))
		}
	}
	return recipe, nil
}

// CacheKey is order and case insensitive over the food items
func CacheKey(foodItems []string) string {
	items := make([]string, len(foodItems))
	for i, item := range foodItems {
		items[i] = strings.ToLower(strings.TrimSpace(item))
	}
	sort.Strings(items)

	sum := sha256.Sum256([]byte(strings.Join(items, "\x00")))
	return CachePrefix + hex.EncodeToString(sum[:])
}
