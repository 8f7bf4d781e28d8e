package recipe

import (
	"fmt"
	"strings"

	"github.com/mealprep/pantrymatch/internal/domain/shared"
)

// RecipeIngredient is one line of a recipe's ingredient list
type RecipeIngredient struct {
	Name     string                 `json:"name"`
	Quantity float64                `json:"quantity"`
	Unit     shared.MeasurementUnit `json:"unit"`
	Notes    string                 `json:"notes,omitempty"`
}

// Validate validates the ingredient
func (i RecipeIngredient) Validate() error {
	if strings.TrimSpace(i.Name) == "" || i.Quantity < 0 {
		return ErrInvalidIngredient
	}
	if i.Unit != "" && !i.Unit.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidUnit, i.Unit)
	}
	return nil
}

// NutritionInfo holds nutrition values for a whole recipe.
// Calories in kcal, macros in grams, sodium and cholesterol in milligrams.
type NutritionInfo struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
	Sugar         float64 `json:"sugar"`
	Sodium        float64 `json:"sodium"`
	Cholesterol   float64 `json:"cholesterol"`
}

// Validate rejects negative values
func (n NutritionInfo) Validate() error {
	for _, v := range []float64{n.Calories, n.Protein, n.Carbohydrates, n.Fat, n.Fiber, n.Sugar, n.Sodium, n.Cholesterol} {
		if v < 0 {
			return ErrInvalidNutrition
		}
	}
	return nil
}

// PerServing divides every value by servings. Non-positive servings
// return the receiver unchanged.
func (n NutritionInfo) PerServing(servings int) NutritionInfo {
	if servings <= 0 {
		return n
	}
	d := float64(servings)
	return NutritionInfo{
		Calories:      n.Calories / d,
		Protein:       n.Protein / d,
		Carbohydrates: n.Carbohydrates / d,
		Fat:           n.Fat / d,
		Fiber:         n.Fiber / d,
		Sugar:         n.Sugar / d,
		Sodium:        n.Sodium / d,
		Cholesterol:   n.Cholesterol / d,
	}
}

// Add returns the field-wise sum of n and other
func (n NutritionInfo) Add(other NutritionInfo) NutritionInfo {
	return NutritionInfo{
		Calories:      n.Calories + other.Calories,
		Protein:       n.Protein + other.Protein,
		Carbohydrates: n.Carbohydrates + other.Carbohydrates,
		Fat:           n.Fat + other.Fat,
		Fiber:         n.Fiber + other.Fiber,
		Sugar:         n.Sugar + other.Sugar,
		Sodium:        n.Sodium + other.Sodium,
		Cholesterol:   n.Cholesterol + other.Cholesterol,
	}
}

// DifficultyLevel represents recipe difficulty
type DifficultyLevel string

const (
	DifficultyLevelEasy   DifficultyLevel = "easy"
	DifficultyLevelMedium DifficultyLevel = "medium"
	DifficultyLevelHard   DifficultyLevel = "hard"
)

// IsValid reports whether d is a known difficulty
func (d DifficultyLevel) IsValid() bool {
	switch d {
	case DifficultyLevelEasy, DifficultyLevelMedium, DifficultyLevelHard:
		return true
	}
	return false
}

// Source records where a recipe came from
type Source string

const (
	SourceManual    Source = "manual"
	SourceSample    Source = "sample"
	SourceGenerated Source = "generated"
)
