// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/recipe"
	"github.com/mealprep/pantrymatch/internal/domain/shared"
)

// RecipeService defines the use cases for the recipe catalog
type RecipeService interface {
	// Commands
	CreateRecipe(ctx context.Context, cmd CreateRecipeCommand) (*RecipeDTO, error)
	UpdateRecipe(ctx context.Context, id uuid.UUID, cmd UpdateRecipeCommand) (*RecipeDTO, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
	SeedSampleCatalog(ctx context.Context) (int, error)

	// Queries
	GetRecipe(ctx context.Context, id uuid.UUID) (*RecipeDTO, error)
	ListRecipes(ctx context.Context) ([]RecipeDTO, error)
	FindMatchingRecipes(ctx context.Context, query FindMatchesQuery) ([]MatchDTO, error)

	// AI
	GenerateRecipe(ctx context.Context, cmd GenerateRecipeCommand) (*GeneratedRecipeDTO, error)
}

// CreateRecipeCommand contains data for creating a new recipe
type CreateRecipeCommand struct {
	Name                string                    `json:"name" validate:"notblank,max=200"`
	Description         string                    `json:"description" validate:"max=2000"`
	RequiredIngredients []RecipeIngredientCommand `json:"required_ingredients" validate:"dive"`
	OptionalIngredients []RecipeIngredientCommand `json:"optional_ingredients" validate:"dive"`
	Instructions        []string                  `json:"instructions"`
	PrepTime            int                       `json:"prep_time" validate:"gte=0"`
	CookTime            int                       `json:"cook_time" validate:"gte=0"`
	Servings            int                       `json:"servings" validate:"gte=0"`
	Difficulty          recipe.DifficultyLevel    `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Nutrition           *NutritionDTO             `json:"nutrition"`
	ImageURL            string                    `json:"image_url" validate:"omitempty,url"`
	Tags                []string                  `json:"tags"`
}

// UpdateRecipeCommand contains the fields to change; nil means unchanged
type UpdateRecipeCommand struct {
	Name                *string                    `json:"name" validate:"omitempty,notblank,max=200"`
	Description         *string                    `json:"description" validate:"omitempty,max=2000"`
	RequiredIngredients *[]RecipeIngredientCommand `json:"required_ingredients" validate:"omitempty,dive"`
	OptionalIngredients *[]RecipeIngredientCommand `json:"optional_ingredients" validate:"omitempty,dive"`
	Instructions        *[]string                  `json:"instructions"`
	PrepTime            *int                       `json:"prep_time" validate:"omitempty,gte=0"`
	CookTime            *int                       `json:"cook_time" validate:"omitempty,gte=0"`
	Servings            *int                       `json:"servings" validate:"omitempty,gte=1"`
	Difficulty          *recipe.DifficultyLevel    `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Nutrition           *NutritionDTO              `json:"nutrition"`
	ImageURL            *string                    `json:"image_url" validate:"omitempty,url"`
	Tags                *[]string                  `json:"tags"`
}

// RecipeIngredientCommand describes one ingredient line
type RecipeIngredientCommand struct {
	Name     string                 `json:"name" validate:"notblank"`
	Quantity float64                `json:"quantity" validate:"gte=0"`
	Unit     shared.MeasurementUnit `json:"unit"`
	Notes    string                 `json:"notes"`
}

// FindMatchesQuery asks for recipes ranked against the pantry.
// Limit nil means the configured default. PantryNames nil means the stored pantry.
type FindMatchesQuery struct {
	Limit       *int     `json:"limit" validate:"omitempty,gte=0"`
	PantryNames []string `json:"pantry"`
}

// GenerateRecipeCommand asks the generator for a recipe built from food items
type GenerateRecipeCommand struct {
	FoodItems []string `json:"food_items" validate:"required,min=1"`
	Save      bool     `json:"save"`
}

// RecipeDTO is the data transfer object for recipes
type RecipeDTO struct {
	ID                  uuid.UUID              `json:"id"`
	Name                string                 `json:"name"`
	Description         string                 `json:"description"`
	RequiredIngredients []RecipeIngredientDTO  `json:"required_ingredients"`
	OptionalIngredients []RecipeIngredientDTO  `json:"optional_ingredients"`
	Instructions        []string               `json:"instructions"`
	PrepTime            int                    `json:"prep_time"`
	CookTime            int                    `json:"cook_time"`
	TotalTime           int                    `json:"total_time"`
	Servings            int                    `json:"servings"`
	Difficulty          recipe.DifficultyLevel `json:"difficulty"`
	Nutrition           NutritionDTO           `json:"nutrition"`
	ImageURL            string                 `json:"image_url,omitempty"`
	Tags                []string               `json:"tags"`
	Source              recipe.Source          `json:"source"`
	Version             int64                  `json:"version"`
	CreatedAt           string                 `json:"created_at"`
	UpdatedAt           string                 `json:"updated_at"`
}

// RecipeIngredientDTO for ingredient data
type RecipeIngredientDTO struct {
	Name     string                 `json:"name"`
	Quantity float64                `json:"quantity"`
	Unit     shared.MeasurementUnit `json:"unit"`
	Notes    string                 `json:"notes,omitempty"`
}

// NutritionDTO for nutrition information
type NutritionDTO struct {
	Calories      float64 `json:"calories" validate:"gte=0"`
	Protein       float64 `json:"protein" validate:"gte=0"`
	Carbohydrates float64 `json:"carbohydrates" validate:"gte=0"`
	Fat           float64 `json:"fat" validate:"gte=0"`
	Fiber         float64 `json:"fiber" validate:"gte=0"`
	Sugar         float64 `json:"sugar" validate:"gte=0"`
	Sodium        float64 `json:"sodium" validate:"gte=0"`
	Cholesterol   float64 `json:"cholesterol" validate:"gte=0"`
}

// MatchDTO is one ranked recipe
type MatchDTO struct {
	Recipe          RecipeDTO `json:"recipe"`
	MatchPercentage float64   `json:"match_percentage"`
	Score           float64   `json:"score"`
}

// GeneratedRecipeDTO is a generated recipe draft, plus the stored recipe when saved
type GeneratedRecipeDTO struct {
	Name          string                   `json:"name"`
	Description   string                   `json:"description"`
	Ingredients   []GeneratedIngredientDTO `json:"ingredients"`
	Instructions  []string                 `json:"instructions"`
	PrepTime      int                      `json:"prep_time"`
	Servings      int                      `json:"servings"`
	Confidence    float64                  `json:"confidence"`
	DetectedItems []string                 `json:"detected_items"`
	Saved         *RecipeDTO               `json:"saved,omitempty"`
}

// GeneratedIngredientDTO is one ingredient of a generated recipe
type GeneratedIngredientDTO struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}
