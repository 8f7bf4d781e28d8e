// Package recipe provides the application layer for the recipe catalog
// This implements the use cases defined in the inbound ports
package recipe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/application/eventing"
	"github.com/mealprep/pantrymatch/internal/domain/matching"
	"github.com/mealprep/pantrymatch/internal/domain/recipe"
	"github.com/mealprep/pantrymatch/internal/ports/inbound"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"github.com/mealprep/pantrymatch/pkg/errors"
	"github.com/mealprep/pantrymatch/pkg/validation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// MatchCachePrefix prefixes every cached match result
const MatchCachePrefix = "matches:"

const (
	matchSourcePantry  = "pantry"
	matchSourceRequest = "request"
)

// Config tunes the recipe service
type Config struct {
	DefaultLimit int
	MatchTTL     time.Duration
}

// RecipeService implements the recipe use cases
type RecipeService struct {
	recipeRepo outbound.RecipeRepository
	pantryRepo outbound.PantryRepository
	cache      outbound.CacheRepository
	generator  outbound.RecipeGenerator
	events     *eventing.Publisher
	metrics    outbound.MetricsRecorder
	tracer     trace.Tracer
	cfg        Config
	logger     *zap.Logger
}

// NewRecipeService creates a new recipe service. cache and generator may be nil.
func NewRecipeService(
	recipeRepo outbound.RecipeRepository,
	pantryRepo outbound.PantryRepository,
	cache outbound.CacheRepository,
	generator outbound.RecipeGenerator,
	bus outbound.MessageBus,
	metrics outbound.MetricsRecorder,
	cfg Config,
	logger *zap.Logger,
) *RecipeService {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = matching.DefaultLimit
	}
	if cfg.MatchTTL <= 0 {
		cfg.MatchTTL = 5 * time.Minute
	}
	if metrics == nil {
		metrics = outbound.NopMetrics{}
	}
	return &RecipeService{
		recipeRepo: recipeRepo,
		pantryRepo: pantryRepo,
		cache:      cache,
		generator:  generator,
		events:     eventing.NewPublisher(bus, logger),
		metrics:    metrics,
		tracer:     otel.Tracer("github.com/mealprep/pantrymatch/internal/application/recipe"),
		cfg:        cfg,
		logger:     logger.Named("recipe-service"),
	}
}

var _ inbound.RecipeService = (*RecipeService)(nil)

// CreateRecipe creates a new recipe
func (s *RecipeService) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDTO, error) {
	s.logger.Info("Creating new recipe", zap.String("name", cmd.Name))

	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}

	entity, err := recipe.NewRecipe(cmd.Name, cmd.Description)
	if err != nil {
		return nil, domainError(err)
	}
	if err := applyCreate(entity, cmd); err != nil {
		return nil, domainError(err)
	}

	if err := s.recipeRepo.Create(ctx, entity); err != nil {
		return nil, errors.NewDatabaseError("create recipe", err)
	}

	s.events.Publish(ctx, outbound.TopicRecipes, entity.Events())
	s.metrics.RecordRecipeCreated(string(entity.Source()))

	dto := ToDTO(entity)
	s.logger.Info("Recipe created successfully", zap.String("recipe_id", dto.ID.String()))
	return &dto, nil
}

func applyCreate(r *recipe.Recipe, cmd inbound.CreateRecipeCommand) error {
	if err := r.SetIngredients(ingredientsFromCommand(cmd.RequiredIngredients), ingredientsFromCommand(cmd.OptionalIngredients)); err != nil {
		return err
	}
	if err := r.SetTiming(cmd.PrepTime, cmd.CookTime); err != nil {
		return err
	}
	if cmd.Servings > 0 {
		if err := r.SetServings(cmd.Servings); err != nil {
			return err
		}
	}
	if cmd.Difficulty != "" {
		if err := r.SetDifficulty(cmd.Difficulty); err != nil {
			return err
		}
	}
	if cmd.Nutrition != nil {
		if err := r.SetNutrition(NutritionFromDTO(*cmd.Nutrition)); err != nil {
			return err
		}
	}
	r.SetInstructions(cmd.Instructions)
	r.SetTags(cmd.Tags)
	r.SetImageURL(cmd.ImageURL)
	return nil
}

// UpdateRecipe applies the non-nil fields of cmd to an existing recipe
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, cmd inbound.UpdateRecipeCommand) (*inbound.RecipeDTO, error) {
	s.logger.Info("Updating recipe", zap.String("recipe_id", id.String()))

	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}

	entity, err := s.loadRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyUpdate(entity, cmd); err != nil {
		return nil, domainError(err)
	}

	if err := s.recipeRepo.Update(ctx, entity); err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewRecipeNotFoundError(id.String())
		}
		return nil, errors.NewDatabaseError("update recipe", err)
	}

	s.events.Publish(ctx, outbound.TopicRecipes, entity.Events())

	dto := ToDTO(entity)
	s.logger.Info("Recipe updated successfully",
		zap.String("recipe_id", dto.ID.String()),
		zap.Int64("version", dto.Version),
	)
	return &dto, nil
}

func applyUpdate(r *recipe.Recipe, cmd inbound.UpdateRecipeCommand) error {
	if cmd.Name != nil {
		if err := r.Rename(*cmd.Name); err != nil {
			return err
		}
	}
	if cmd.Description != nil {
		if err := r.SetDescription(*cmd.Description); err != nil {
			return err
		}
	}
	if cmd.RequiredIngredients != nil || cmd.OptionalIngredients != nil {
		required := r.RequiredIngredients()
		if cmd.RequiredIngredients != nil {
			required = ingredientsFromCommand(*cmd.RequiredIngredients)
		}
		optional := r.OptionalIngredients()
		if cmd.OptionalIngredients != nil {
			optional = ingredientsFromCommand(*cmd.OptionalIngredients)
		}
		if err := r.SetIngredients(required, optional); err != nil {
			return err
		}
	}
	if cmd.PrepTime != nil || cmd.CookTime != nil {
		prep, cook := r.PrepTime(), r.CookTime()
		if cmd.PrepTime != nil {
			prep = *cmd.PrepTime
		}
		if cmd.CookTime != nil {
			cook = *cmd.CookTime
		}
		if err := r.SetTiming(prep, cook); err != nil {
			return err
		}
	}
	if cmd.Servings != nil {
		if err := r.SetServings(*cmd.Servings); err != nil {
			return err
		}
	}
	if cmd.Difficulty != nil {
		if err := r.SetDifficulty(*cmd.Difficulty); err != nil {
			return err
		}
	}
	if cmd.Nutrition != nil {
		if err := r.SetNutrition(NutritionFromDTO(*cmd.Nutrition)); err != nil {
			return err
		}
	}
	if cmd.Instructions != nil {
		r.SetInstructions(*cmd.Instructions)
	}
	if cmd.Tags != nil {
		r.SetTags(*cmd.Tags)
	}
	if cmd.ImageURL != nil {
		r.SetImageURL(*cmd.ImageURL)
	}
	return nil
}

// DeleteRecipe removes a recipe from the catalog
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	s.logger.Info("Deleting recipe", zap.String("recipe_id", id.String()))

	entity, err := s.loadRecipe(ctx, id)
	if err != nil {
		return err
	}

	if err := s.recipeRepo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return errors.NewRecipeNotFoundError(id.String())
		}
		return errors.NewDatabaseError("delete recipe", err)
	}

	entity.MarkDeleted()
	s.events.Publish(ctx, outbound.TopicRecipes, entity.Events())

	s.logger.Info("Recipe deleted successfully", zap.String("recipe_id", id.String()))
	return nil
}

// GetRecipe retrieves one recipe
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*inbound.RecipeDTO, error) {
	entity, err := s.loadRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(entity)
	return &dto, nil
}

// ListRecipes returns the catalog in insertion order
func (s *RecipeService) ListRecipes(ctx context.Context) ([]inbound.RecipeDTO, error) {
	recipes, err := s.recipeRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list recipes", err)
	}
	out := make([]inbound.RecipeDTO, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, ToDTO(r))
	}
	return out, nil
}

// SeedSampleCatalog stores the sample recipes when the catalog is empty.
// It returns how many recipes were inserted.
func (s *RecipeService) SeedSampleCatalog(ctx context.Context) (int, error) {
	count, err := s.recipeRepo.Count(ctx)
	if err != nil {
		return 0, errors.NewDatabaseError("count recipes", err)
	}
	if count > 0 {
		return 0, nil
	}

	samples := recipe.SampleCatalog()
	if err := s.recipeRepo.BulkCreate(ctx, samples); err != nil {
		return 0, errors.NewDatabaseError("seed recipes", err)
	}
	for _, r := range samples {
		s.events.Publish(ctx, outbound.TopicRecipes, r.Events())
		s.metrics.RecordRecipeCreated(string(r.Source()))
	}

	s.logger.Info("Seeded sample catalog", zap.Int("recipes", len(samples)))
	return len(samples), nil
}

// FindMatchingRecipes ranks the catalog against the pantry. Results are
// cached under a key built from the pantry names, the catalog fingerprint
// and the limit, so any change to either input misses the cache.
func (s *RecipeService) FindMatchingRecipes(ctx context.Context, query inbound.FindMatchesQuery) ([]inbound.MatchDTO, error) {
	ctx, span := s.tracer.Start(ctx, "recipe.FindMatchingRecipes")
	defer span.End()
	start := time.Now()

	if err := validation.Struct(query); err != nil {
		return nil, err
	}

	limit := s.cfg.DefaultLimit
	if query.Limit != nil {
		limit = *query.Limit
	}

	source := matchSourceRequest
	names := query.PantryNames
	if names == nil {
		source = matchSourcePantry
		var err error
		if names, err = s.pantryNames(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "load pantry")
			return nil, err
		}
	}
	span.SetAttributes(
		attribute.String("match.source", source),
		attribute.Int("match.limit", limit),
		attribute.Int("match.pantry_size", len(names)),
	)

	key := s.matchCacheKey(ctx, names, limit)
	if cached, ok := s.cachedMatches(ctx, key); ok {
		span.SetAttributes(attribute.Bool("match.cache_hit", true))
		s.metrics.RecordMatchRequest(source, time.Since(start), len(cached))
		return cached, nil
	}

	catalog, err := s.recipeRepo.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load catalog")
		return nil, errors.NewDatabaseError("load recipe catalog", err)
	}

	results := matchesToDTO(matching.FindMatchingRecipes(names, catalog, limit))
	s.storeMatches(ctx, key, results)

	span.SetAttributes(attribute.Int("match.results", len(results)))
	s.metrics.RecordMatchRequest(source, time.Since(start), len(results))
	s.logger.Debug("Matched recipes",
		zap.String("source", source),
		zap.Int("pantry_size", len(names)),
		zap.Int("catalog_size", len(catalog)),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// GenerateRecipe drafts a recipe from detected food items and optionally saves it
func (s *RecipeService) GenerateRecipe(ctx context.Context, cmd inbound.GenerateRecipeCommand) (*inbound.GeneratedRecipeDTO, error) {
	ctx, span := s.tracer.Start(ctx, "recipe.GenerateRecipe")
	defer span.End()

	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}

	items := recipe.FilterFoodItems(cmd.FoodItems)
	if len(items) == 0 {
		return nil, errors.NewNoFoodDetectedError()
	}
	if s.generator == nil {
		return nil, errors.NewProviderNotConfiguredError("recipe generator")
	}

	s.logger.Info("Generating recipe", zap.Strings("food_items", items))
	generated, err := s.generator.GenerateRecipe(ctx, items)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate")
		return nil, errors.NewExternalServiceError("recipe generator", err)
	}

	dto := generatedToDTO(generated)
	if !cmd.Save {
		return dto, nil
	}

	entity, err := generatedToRecipe(generated)
	if err != nil {
		return nil, domainError(err)
	}
	if err := s.recipeRepo.Create(ctx, entity); err != nil {
		return nil, errors.NewDatabaseError("save generated recipe", err)
	}
	s.events.Publish(ctx, outbound.TopicRecipes, entity.Events())
	s.metrics.RecordRecipeCreated(string(entity.Source()))

	saved := ToDTO(entity)
	dto.Saved = &saved
	s.logger.Info("Generated recipe saved", zap.String("recipe_id", saved.ID.String()))
	return dto, nil
}

// Helper methods

func (s *RecipeService) loadRecipe(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	entity, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewRecipeNotFoundError(id.String())
		}
		return nil, errors.NewDatabaseError("find recipe", err)
	}
	return entity, nil
}

func (s *RecipeService) pantryNames(ctx context.Context) ([]string, error) {
	if s.pantryRepo == nil {
		return []string{}, nil
	}
	items, err := s.pantryRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("load pantry", err)
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name())
	}
	return names, nil
}

// matchCacheKey returns "" when no cache is configured or the catalog
// fingerprint cannot be read; an empty key disables caching for the call.
func (s *RecipeService) matchCacheKey(ctx context.Context, names []string, limit int) string {
	if s.cache == nil {
		return ""
	}
	fp, err := s.recipeRepo.Fingerprint(ctx)
	if err != nil {
		s.logger.Warn("Failed to read catalog fingerprint", zap.Error(err))
		return ""
	}
	return MatchCacheKey(names, fp, limit)
}

// MatchCacheKey builds the cache key for a match request
func MatchCacheKey(names []string, fp outbound.CatalogFingerprint, limit int) string {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	sorted := make([]string, 0, len(set))
	for n := range set {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	h := sha256.New()
	for _, n := range sorted {
		h.Write([]byte(n))
		h.Write([]byte{0})
	}
	fmt.Fprintf(h, "|%d|%d|%d", fp.Count, fp.LastUpdatedAt.UnixNano(), limit)
	return MatchCachePrefix + hex.EncodeToString(h.Sum(nil))
}

func (s *RecipeService) cachedMatches(ctx context.Context, key string) ([]inbound.MatchDTO, bool) {
	if key == "" {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if stderrors.Is(err, outbound.ErrCacheMiss) {
			s.metrics.RecordCacheOperation("get", "miss")
			s.logger.Debug("Match cache miss", zap.String("key", key))
		} else {
			s.metrics.RecordCacheOperation("get", "error")
			s.logger.Warn("Match cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var out []inbound.MatchDTO
	if err := json.Unmarshal(data, &out); err != nil {
		s.metrics.RecordCacheOperation("get", "error")
		s.logger.Warn("Discarding undecodable cached matches", zap.Error(err))
		return nil, false
	}
	s.metrics.RecordCacheOperation("get", "hit")
	return out, true
}

func (s *RecipeService) storeMatches(ctx context.Context, key string, results []inbound.MatchDTO) {
	if key == "" {
		return
	}
	data, err := json.Marshal(results)
	if err != nil {
		s.logger.Warn("Failed to encode matches for cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cfg.MatchTTL); err != nil {
		s.metrics.RecordCacheOperation("set", "error")
		s.logger.Warn("Match cache write failed", zap.Error(err))
		return
	}
	s.metrics.RecordCacheOperation("set", "ok")
}

// domainError maps recipe validation failures to a validation AppError
func domainError(err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return errors.NewValidationError(err.Error()).WithCause(err)
}
