// Package mealplan provides the application layer for meal planning
package mealplan

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	recipeapp "github.com/mealprep/pantrymatch/internal/application/recipe"
	"github.com/mealprep/pantrymatch/internal/domain/mealplan"
	"github.com/mealprep/pantrymatch/internal/ports/inbound"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"github.com/mealprep/pantrymatch/pkg/errors"
	"github.com/mealprep/pantrymatch/pkg/validation"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// MealPlanService implements the meal planning use cases
type MealPlanService struct {
	plans    outbound.MealPlanRepository
	recipes  outbound.RecipeRepository
	location *time.Location
	logger   *zap.Logger
}

// NewMealPlanService creates a meal plan service. Calendar days are
// evaluated in loc; nil means UTC.
func NewMealPlanService(
	plans outbound.MealPlanRepository,
	recipes outbound.RecipeRepository,
	loc *time.Location,
	logger *zap.Logger,
) *MealPlanService {
	if loc == nil {
		loc = time.UTC
	}
	return &MealPlanService{
		plans:    plans,
		recipes:  recipes,
		location: loc,
		logger:   logger.Named("mealplan-service"),
	}
}

var _ inbound.MealPlanService = (*MealPlanService)(nil)

// AddMealPlan schedules a recipe, keeping a copy of its nutrition
func (s *MealPlanService) AddMealPlan(ctx context.Context, cmd inbound.AddMealPlanCommand) (*inbound.MealPlanDTO, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}

	r, err := s.recipes.FindByID(ctx, cmd.RecipeID)
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewRecipeNotFoundError(cmd.RecipeID.String())
		}
		return nil, errors.NewDatabaseError("find recipe", err)
	}

	plan, err := mealplan.New(cmd.Date, cmd.MealType, r, cmd.Servings, cmd.Notes)
	if err != nil {
		return nil, errors.NewValidationError(err.Error()).WithCause(err)
	}
	if err := s.plans.Save(ctx, plan); err != nil {
		s.logger.Error("Failed to save meal plan", zap.Error(err))
		return nil, errors.NewDatabaseError("save meal plan", err)
	}

	s.logger.Info("Meal plan added",
		zap.String("meal_plan_id", plan.ID.String()),
		zap.String("recipe_id", plan.Recipe.ID.String()),
		zap.String("meal_type", string(plan.MealType)),
	)
	dto := s.toDTO(plan)
	return &dto, nil
}

// RemoveMealPlan deletes a meal plan
func (s *MealPlanService) RemoveMealPlan(ctx context.Context, id uuid.UUID) error {
	if err := s.plans.Delete(ctx, id); err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return errors.NewMealPlanNotFoundError(id.String())
		}
		return errors.NewDatabaseError("delete meal plan", err)
	}
	s.logger.Info("Meal plan removed", zap.String("meal_plan_id", id.String()))
	return nil
}

// MealPlansForDate returns the plans on date's calendar day
func (s *MealPlanService) MealPlansForDate(ctx context.Context, date time.Time) ([]inbound.MealPlanDTO, error) {
	plans, err := s.plansOn(ctx, date)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(plans), nil
}

// DailyNutrition totals the nutrition of the plans on date's calendar day
func (s *MealPlanService) DailyNutrition(ctx context.Context, date time.Time) (*inbound.DailyNutritionDTO, error) {
	plans, err := s.plansOn(ctx, date)
	if err != nil {
		return nil, err
	}
	return &inbound.DailyNutritionDTO{
		Date:   date.In(s.location).Format(dateLayout),
		Totals: recipeapp.NutritionToDTO(mealplan.DailyTotals(plans)),
		Meals:  s.toDTOs(plans),
	}, nil
}

func (s *MealPlanService) plansOn(ctx context.Context, date time.Time) ([]*mealplan.MealPlan, error) {
	if date.IsZero() {
		return nil, errors.NewValidationError("date is required")
	}
	start, end := mealplan.DayBounds(date, s.location)
	plans, err := s.plans.FindBetween(ctx, start, end)
	if err != nil {
		return nil, errors.NewDatabaseError("list meal plans", err)
	}
	// the repository range is a prefilter; the calendar day decides
	return mealplan.FilterByDay(plans, date, s.location), nil
}

func (s *MealPlanService) toDTOs(plans []*mealplan.MealPlan) []inbound.MealPlanDTO {
	out := make([]inbound.MealPlanDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, s.toDTO(p))
	}
	return out
}

func (s *MealPlanService) toDTO(p *mealplan.MealPlan) inbound.MealPlanDTO {
	return inbound.MealPlanDTO{
		ID:         p.ID,
		Date:       p.Date.In(s.location).Format(dateLayout),
		MealType:   p.MealType,
		RecipeID:   p.Recipe.ID,
		RecipeName: p.Recipe.Name,
		Servings:   p.Servings,
		Notes:      p.Notes,
		Nutrition:  recipeapp.NutritionToDTO(p.Nutrition()),
	}
}
