package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/mealplan"
)

// MealPlanService defines the use cases for meal planning
type MealPlanService interface {
	AddMealPlan(ctx context.Context, cmd AddMealPlanCommand) (*MealPlanDTO, error)
	RemoveMealPlan(ctx context.Context, id uuid.UUID) error
	MealPlansForDate(ctx context.Context, date time.Time) ([]MealPlanDTO, error)
	DailyNutrition(ctx context.Context, date time.Time) (*DailyNutritionDTO, error)
}

// AddMealPlanCommand schedules a recipe
type AddMealPlanCommand struct {
	RecipeID uuid.UUID         `json:"recipe_id" validate:"required"`
	Date     time.Time         `json:"date" validate:"required"`
	MealType mealplan.MealType `json:"meal_type" validate:"required,oneof=breakfast lunch dinner snack"`
	Servings int               `json:"servings" validate:"gte=0"`
	Notes    string            `json:"notes" validate:"max=1000"`
}

// MealPlanDTO for meal plan data
type MealPlanDTO struct {
	ID         uuid.UUID         `json:"id"`
	Date       string            `json:"date"`
	MealType   mealplan.MealType `json:"meal_type"`
	RecipeID   uuid.UUID         `json:"recipe_id"`
	RecipeName string            `json:"recipe_name"`
	Servings   int               `json:"servings"`
	Notes      string            `json:"notes,omitempty"`
	Nutrition  NutritionDTO      `json:"nutrition"`
}

// DailyNutritionDTO totals a day's meal plans
type DailyNutritionDTO struct {
	Date   string        `json:"date"`
	Totals NutritionDTO  `json:"totals"`
	Meals  []MealPlanDTO `json:"meals"`
}
