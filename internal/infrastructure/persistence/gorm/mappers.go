package gorm

import (
	"github.com/mealprep/pantrymatch/internal/domain/mealplan"
	"github.com/mealprep/pantrymatch/internal/domain/pantry"
	"github.com/mealprep/pantrymatch/internal/domain/recipe"
	"github.com/mealprep/pantrymatch/internal/domain/shared"
)

// RecipeToModel converts a domain recipe to a GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	s := r.Snapshot()
	return &RecipeModel{
		ID:                  s.ID,
		Version:             s.Version,
		Name:                s.Name,
		Description:         s.Description,
		RequiredIngredients: IngredientList(s.RequiredIngredients),
		OptionalIngredients: IngredientList(s.OptionalIngredients),
		Instructions:        StringSlice(s.Instructions),
		Nutrition:           NutritionModel(s.Nutrition),
		PrepTimeMinutes:     s.PrepTime,
		CookTimeMinutes:     s.CookTime,
		Servings:            s.Servings,
		Difficulty:          string(s.Difficulty),
		Tags:                StringSlice(s.Tags),
		ImageURL:            s.ImageURL,
		Source:              string(s.Source),
		CreatedAt:           s.CreatedAt.UTC(),
		UpdatedAt:           s.UpdatedAt.UTC(),
	}
}

// ModelToRecipe converts a GORM model to a domain recipe
func ModelToRecipe(m *RecipeModel) *recipe.Recipe {
	return recipe.Reconstitute(recipe.Snapshot{
		ID:                  m.ID,
		Version:             m.Version,
		Name:                m.Name,
		Description:         m.Description,
		RequiredIngredients: m.RequiredIngredients,
		OptionalIngredients: m.OptionalIngredients,
		Instructions:        m.Instructions,
		PrepTime:            m.PrepTimeMinutes,
		CookTime:            m.CookTimeMinutes,
		Servings:            m.Servings,
		Difficulty:          recipe.DifficultyLevel(m.Difficulty),
		Nutrition:           recipe.NutritionInfo(m.Nutrition),
		ImageURL:            m.ImageURL,
		Tags:                m.Tags,
		Source:              recipe.Source(m.Source),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	})
}

// IngredientToModel converts a pantry ingredient to a GORM model
func IngredientToModel(i *pantry.Ingredient) *PantryIngredientModel {
	s := i.Snapshot()
	m := &PantryIngredientModel{
		ID:         s.ID,
		Name:       s.Name,
		NameKey:    pantry.NormalizeName(s.Name),
		Category:   string(s.Category),
		Quantity:   s.Quantity,
		Unit:       string(s.Unit),
		Confidence: s.Confidence,
		DateAdded:  s.DateAdded.UTC(),
	}
	if s.ExpirationDate != nil {
		exp := s.ExpirationDate.UTC()
		m.ExpirationDate = &exp
	}
	return m
}

// ModelToIngredient converts a GORM model to a pantry ingredient
func ModelToIngredient(m *PantryIngredientModel) *pantry.Ingredient {
	return pantry.Reconstitute(pantry.Snapshot{
		ID:             m.ID,
		Name:           m.Name,
		Category:       pantry.Category(m.Category),
		Quantity:       m.Quantity,
		Unit:           shared.MeasurementUnit(m.Unit),
		DateAdded:      m.DateAdded,
		ExpirationDate: m.ExpirationDate,
		Confidence:     m.Confidence,
	})
}

// MealPlanToModel converts a meal plan to a GORM model
func MealPlanToModel(p *mealplan.MealPlan) *MealPlanModel {
	return &MealPlanModel{
		ID:              p.ID,
		Date:            p.Date.UTC(),
		MealType:        string(p.MealType),
		Servings:        p.Servings,
		Notes:           p.Notes,
		RecipeID:        p.Recipe.ID,
		RecipeName:      p.Recipe.Name,
		RecipeServings:  p.Recipe.Servings,
		RecipeNutrition: NutritionModel(p.Recipe.Nutrition),
	}
}

// ModelToMealPlan converts a GORM model to a meal plan
func ModelToMealPlan(m *MealPlanModel) *mealplan.MealPlan {
	return &mealplan.MealPlan{
		ID:       m.ID,
		Date:     m.Date,
		MealType: mealplan.MealType(m.MealType),
		Servings: m.Servings,
		Notes:    m.Notes,
		Recipe: mealplan.RecipeRef{
			ID:        m.RecipeID,
			Name:      m.RecipeName,
			Servings:  m.RecipeServings,
			Nutrition: recipe.NutritionInfo(m.RecipeNutrition),
		},
	}
}
