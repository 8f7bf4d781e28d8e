// Package mealplan schedules recipes on calendar days and totals their nutrition.
package mealplan

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/recipe"
)

var (
	ErrInvalidMealType = errors.New("meal type must be breakfast, lunch, dinner or snack")
	ErrInvalidServings = errors.New("servings must be greater than 0")
	ErrMissingRecipe   = errors.New("meal plan needs a recipe")
	ErrMissingDate     = errors.New("meal plan needs a date")
)

// MealType is the slot of the day a meal is planned for
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// IsValid reports whether m is a known meal type
func (m MealType) IsValid() bool {
	switch m {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack:
		return true
	}
	return false
}

// RecipeRef is the part of a recipe a meal plan keeps. It is copied when
// the plan is created so later catalog edits do not change past days.
type RecipeRef struct {
	ID        uuid.UUID            `json:"id"`
	Name      string               `json:"name"`
	Servings  int                  `json:"servings"`
	Nutrition recipe.NutritionInfo `json:"nutrition"`
}

// RefOf snapshots a recipe for a meal plan
func RefOf(r *recipe.Recipe) RecipeRef {
	return RecipeRef{
		ID:        r.ID(),
		Name:      r.Name(),
		Servings:  r.Servings(),
		Nutrition: r.Nutrition(),
	}
}

// MealPlan is a recipe scheduled for a meal on a given day
type MealPlan struct {
	ID       uuid.UUID `json:"id"`
	Date     time.Time `json:"date"`
	MealType MealType  `json:"meal_type"`
	Recipe   RecipeRef `json:"recipe"`
	Servings int       `json:"servings"`
	Notes    string    `json:"notes,omitempty"`
}

// New validates and creates a meal plan. Zero servings defaults to 1.
func New(date time.Time, mealType MealType, r *recipe.Recipe, servings int, notes string) (*MealPlan, error) {
	if r == nil {
		return nil, ErrMissingRecipe
	}
	if date.IsZero() {
		return nil, ErrMissingDate
	}
	if !mealType.IsValid() {
		return nil, ErrInvalidMealType
	}
	if servings == 0 {
		servings = 1
	}
	if servings < 0 {
		return nil, ErrInvalidServings
	}
	return &MealPlan{
		ID:       uuid.New(),
		Date:     date,
		MealType: mealType,
		Recipe:   RefOf(r),
		Servings: servings,
		Notes:    strings.TrimSpace(notes),
	}, nil
}

// Nutrition is one serving of the planned recipe. The plan's own Servings
// field is informational and does not scale it.
func (m *MealPlan) Nutrition() recipe.NutritionInfo {
	return m.Recipe.Nutrition.PerServing(m.Recipe.Servings)
}

// SameDay reports whether a and b fall on the same calendar day in loc
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// DayBounds returns the half-open interval [start, end) covering day in loc
func DayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := day.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// FilterByDay keeps the plans on the same calendar day as day
func FilterByDay(plans []*MealPlan, day time.Time, loc *time.Location) []*MealPlan {
	out := make([]*MealPlan, 0, len(plans))
	for _, p := range plans {
		if SameDay(p.Date, day, loc) {
			out = append(out, p)
		}
	}
	return out
}

// DailyTotals sums the nutrition of every plan
func DailyTotals(plans []*MealPlan) recipe.NutritionInfo {
	var total recipe.NutritionInfo
	for _, p := range plans {
		total = total.Add(p.Nutrition())
	}
	return total
}
