package outbound

import (
	"context"
	"errors"
)

// Errors a NutritionProvider may return
var (
	ErrProviderNotConfigured = errors.New("provider credentials are not configured")
	ErrInvalidCredentials    = errors.New("provider rejected the credentials")
	ErrNoData                = errors.New("provider returned no data")
)

// NutritionProvider looks up foods in an external nutrition database
type NutritionProvider interface {
	SearchFoods(ctx context.Context, query string) ([]FoodSummary, error)
	FoodNutrients(ctx context.Context, query string) (*FoodNutrients, error)
}

// FoodSummary is a search hit
type FoodSummary struct {
	Name        string
	ServingUnit string
	ServingQty  float64
	PhotoURL    string
}

// FoodNutrients is the detailed nutrient record of one food
type FoodNutrients struct {
	Name          string
	ServingQty    float64
	ServingUnit   string
	ServingGrams  float64
	Calories      float64
	TotalFat      float64
	Protein       float64
	Carbohydrates float64
	PhotoURL      string
}

// RecipeGenerator drafts a recipe from a list of food items
type RecipeGenerator interface {
	GenerateRecipe(ctx context.Context, foodItems []string) (*GeneratedRecipe, error)
}

// GeneratedRecipe is a recipe draft produced by a generator
type GeneratedRecipe struct {
	Name          string
	Description   string
	Ingredients   []GeneratedIngredient
	Instructions  []string
	PrepTime      int
	Servings      int
	Confidence    float64
	DetectedItems []string
	Generated     bool // false when the deterministic fallback produced it
}

// GeneratedIngredient is one ingredient of a generated recipe
type GeneratedIngredient struct {
	Name     string
	Quantity string
	Unit     string
}
