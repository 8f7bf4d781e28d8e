// Package pantry provides the application layer for the household pantry
package pantry

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/application/eventing"
	"github.com/mealprep/pantrymatch/internal/domain/pantry"
	"github.com/mealprep/pantrymatch/internal/domain/shared"
	"github.com/mealprep/pantrymatch/internal/ports/inbound"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"github.com/mealprep/pantrymatch/pkg/errors"
	"github.com/mealprep/pantrymatch/pkg/validation"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const nutritionServiceName = "nutritionix"

// PantryService implements the pantry use cases
type PantryService struct {
	repo      outbound.PantryRepository
	nutrition outbound.NutritionProvider
	events    *eventing.Publisher
	now       func() time.Time
	logger    *zap.Logger
}

// NewPantryService creates a new pantry service. nutrition may be nil.
func NewPantryService(
	repo outbound.PantryRepository,
	nutrition outbound.NutritionProvider,
	bus outbound.MessageBus,
	logger *zap.Logger,
) *PantryService {
	return &PantryService{
		repo:      repo,
		nutrition: nutrition,
		events:    eventing.NewPublisher(bus, logger),
		now:       time.Now,
		logger:    logger.Named("pantry-service"),
	}
}

var _ inbound.PantryService = (*PantryService)(nil)

// AddIngredient stores a new pantry ingredient. Names are unique ignoring
// case and surrounding whitespace.
func (s *PantryService) AddIngredient(ctx context.Context, cmd inbound.AddIngredientCommand) (*inbound.IngredientDTO, error) {
	s.logger.Info("Adding pantry ingredient", zap.String("name", cmd.Name))

	ing, err := s.newIngredient(cmd)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, ing.Name(), uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, ing); err != nil {
		return nil, errors.NewDatabaseError("save ingredient", err)
	}
	s.events.Publish(ctx, outbound.TopicPantry, ing.Events())

	dto := s.toDTO(ing)
	s.logger.Info("Pantry ingredient added",
		zap.String("ingredient_id", dto.ID.String()),
		zap.String("category", string(dto.Category)),
	)
	return &dto, nil
}

// UpdateIngredient replaces an ingredient: the old record is removed and
// the new one saved under the same ID.
func (s *PantryService) UpdateIngredient(ctx context.Context, id uuid.UUID, cmd inbound.AddIngredientCommand) (*inbound.IngredientDTO, error) {
	s.logger.Info("Updating pantry ingredient", zap.String("ingredient_id", id.String()))

	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	replacement, err := s.newIngredient(cmd)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, replacement.Name(), id); err != nil {
		return nil, err
	}

	snap := replacement.Snapshot()
	snap.ID = existing.ID()
	snap.DateAdded = existing.DateAdded()
	updated := pantry.Reconstitute(snap)

	if err := s.repo.Delete(ctx, id); err != nil && !stderrors.Is(err, outbound.ErrNotFound) {
		return nil, errors.NewDatabaseError("replace ingredient", err)
	}
	if err := s.repo.Save(ctx, updated); err != nil {
		return nil, errors.NewDatabaseError("replace ingredient", err)
	}

	existing.MarkRemoved()
	s.events.Publish(ctx, outbound.TopicPantry, existing.Events())
	updated.AddEvent(pantry.IngredientAddedEvent{IngredientID: id, Name: updated.Name(), AddedAt: s.now().UTC()})
	s.events.Publish(ctx, outbound.TopicPantry, updated.Events())

	dto := s.toDTO(updated)
	return &dto, nil
}

// RemoveIngredient deletes an ingredient
func (s *PantryService) RemoveIngredient(ctx context.Context, id uuid.UUID) error {
	s.logger.Info("Removing pantry ingredient", zap.String("ingredient_id", id.String()))

	existing, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return errors.NewIngredientNotFoundError(id.String())
		}
		return errors.NewDatabaseError("delete ingredient", err)
	}

	existing.MarkRemoved()
	s.events.Publish(ctx, outbound.TopicPantry, existing.Events())
	return nil
}

// ListIngredients returns the pantry in the order items were added
func (s *PantryService) ListIngredients(ctx context.Context) ([]inbound.IngredientDTO, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list ingredients", err)
	}
	out := make([]inbound.IngredientDTO, 0, len(items))
	for _, item := range items {
		out = append(out, s.toDTO(item))
	}
	return out, nil
}

// PantryNames returns the names of every pantry ingredient
func (s *PantryService) PantryNames(ctx context.Context) ([]string, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list ingredients", err)
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name())
	}
	return names, nil
}

// SearchFoods looks foods up in the nutrition database
func (s *PantryService) SearchFoods(ctx context.Context, query string) ([]inbound.FoodDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []inbound.FoodDTO{}, nil
	}
	if s.nutrition == nil {
		return nil, errors.NewProviderNotConfiguredError(nutritionServiceName)
	}

	foods, err := s.nutrition.SearchFoods(ctx, query)
	if err != nil {
		return nil, providerError(err)
	}
	out := make([]inbound.FoodDTO, 0, len(foods))
	for _, f := range foods {
		out = append(out, inbound.FoodDTO(f))
	}
	return out, nil
}

// ImportFood fetches a food from the nutrition database and adds it to the pantry
func (s *PantryService) ImportFood(ctx context.Context, cmd inbound.ImportFoodCommand) (*inbound.IngredientDTO, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	if s.nutrition == nil {
		return nil, errors.NewProviderNotConfiguredError(nutritionServiceName)
	}

	food, err := s.nutrition.FoodNutrients(ctx, strings.TrimSpace(cmd.Query))
	if err != nil {
		return nil, providerError(err)
	}

	s.logger.Info("Importing food", zap.String("query", cmd.Query), zap.String("food", food.Name))
	return s.AddIngredient(ctx, FoodToCommand(food))
}

// FoodToCommand converts a nutrition database record into a pantry command:
// title-cased name, category from the name, unit from the serving unit.
func FoodToCommand(food *outbound.FoodNutrients) inbound.AddIngredientCommand {
	confidence := 1.0
	qty := food.ServingQty
	if qty < 0 {
		qty = 0
	}
	return inbound.AddIngredientCommand{
		Name:       cases.Title(language.Und).String(strings.TrimSpace(food.Name)),
		Category:   pantry.Categorize(food.Name),
		Quantity:   qty,
		Unit:       shared.ParseServingUnit(food.ServingUnit),
		Confidence: &confidence,
	}
}

// Helper methods

func (s *PantryService) newIngredient(cmd inbound.AddIngredientCommand) (*pantry.Ingredient, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	ing, err := pantry.NewIngredient(pantry.NewIngredientParams{
		Name:           cmd.Name,
		Category:       cmd.Category,
		Quantity:       cmd.Quantity,
		Unit:           cmd.Unit,
		ExpirationDate: cmd.ExpirationDate,
		Confidence:     cmd.Confidence,
	})
	if err != nil {
		return nil, errors.NewValidationError(err.Error()).WithCause(err)
	}
	return ing, nil
}

func (s *PantryService) ensureUnique(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.repo.FindByName(ctx, name)
	switch {
	case stderrors.Is(err, outbound.ErrNotFound):
		return nil
	case err != nil:
		return errors.NewDatabaseError("check ingredient name", err)
	case existing.ID() == self:
		return nil
	}
	return errors.NewDuplicateIngredientError(name).WithCause(pantry.ErrDuplicateIngredient)
}

func (s *PantryService) load(ctx context.Context, id uuid.UUID) (*pantry.Ingredient, error) {
	ing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewIngredientNotFoundError(id.String())
		}
		return nil, errors.NewDatabaseError("find ingredient", err)
	}
	return ing, nil
}

func (s *PantryService) toDTO(ing *pantry.Ingredient) inbound.IngredientDTO {
	dto := inbound.IngredientDTO{
		ID:         ing.ID(),
		Name:       ing.Name(),
		Category:   ing.Category(),
		Quantity:   ing.Quantity(),
		Unit:       ing.Unit(),
		DateAdded:  ing.DateAdded().Format(time.RFC3339),
		Confidence: ing.Confidence(),
		Expired:    ing.IsExpired(s.now()),
	}
	if exp := ing.ExpirationDate(); exp != nil {
		formatted := exp.Format(time.RFC3339)
		dto.ExpirationDate = &formatted
	}
	return dto
}

func providerError(err error) error {
	switch {
	case stderrors.Is(err, outbound.ErrProviderNotConfigured):
		return errors.NewProviderNotConfiguredError(nutritionServiceName)
	case stderrors.Is(err, outbound.ErrInvalidCredentials):
		return errors.NewInvalidCredentialsError(nutritionServiceName)
	case stderrors.Is(err, outbound.ErrNoData):
		return errors.NewNotFoundError("Food").WithCause(err)
	}
	return errors.NewExternalServiceError(nutritionServiceName, err)
}
