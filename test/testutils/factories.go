// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/mealprep/pantrymatch/internal/domain/mealplan"
	"github.com/mealprep/pantrymatch/internal/domain/pantry"
	"github.com/mealprep/pantrymatch/internal/domain/recipe"
	"github.com/mealprep/pantrymatch/internal/domain/shared"
)

// RecipeFactory provides methods to create test recipes
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a new recipe factory with seeded faker
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{faker: gofakeit.New(seed)}
}

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	name         string
	description  string
	required     []recipe.RecipeIngredient
	optional     []recipe.RecipeIngredient
	instructions []string
	prepTime     int
	cookTime     int
	servings     int
	difficulty   recipe.DifficultyLevel
	nutrition    recipe.NutritionInfo
	tags         []string
}

// NewRecipeBuilder creates a new recipe builder with default values
func (rf *RecipeFactory) NewRecipeBuilder() *RecipeBuilder {
	return &RecipeBuilder{
		name:         strings.TrimSuffix(rf.faker.Sentence(3), "."),
		description:  rf.faker.Sentence(10),
		required:     Ingredients(rf.faker.Noun(), rf.faker.Noun()),
		instructions: []string{rf.faker.Sentence(6), rf.faker.Sentence(6)},
		prepTime:     rf.faker.Number(5, 30),
		cookTime:     rf.faker.Number(0, 60),
		servings:     rf.faker.Number(1, 6),
		difficulty:   recipe.DifficultyLevelEasy,
		nutrition: recipe.NutritionInfo{
			Calories: float64(rf.faker.Number(100, 900)),
			Protein:  float64(rf.faker.Number(0, 60)),
		},
		tags: []string{"test"},
	}
}

func (rb *RecipeBuilder) WithName(name string) *RecipeBuilder {
	rb.name = name
	return rb
}

// WithRequired sets the required ingredient names, one item each
func (rb *RecipeBuilder) WithRequired(names ...string) *RecipeBuilder {
	rb.required = Ingredients(names...)
	return rb
}

// WithOptional sets the optional ingredient names, one item each
func (rb *RecipeBuilder) WithOptional(names ...string) *RecipeBuilder {
	rb.optional = Ingredients(names...)
	return rb
}

func (rb *RecipeBuilder) WithServings(servings int) *RecipeBuilder {
	rb.servings = servings
	return rb
}

func (rb *RecipeBuilder) WithNutrition(n recipe.NutritionInfo) *RecipeBuilder {
	rb.nutrition = n
	return rb
}

// Build creates the recipe, discarding the creation events
func (rb *RecipeBuilder) Build() (*recipe.Recipe, error) {
	r, err := recipe.NewRecipe(rb.name, rb.description)
	if err != nil {
		return nil, err
	}
	if err := r.SetIngredients(rb.required, rb.optional); err != nil {
		return nil, err
	}
	if err := r.SetTiming(rb.prepTime, rb.cookTime); err != nil {
		return nil, err
	}
	if err := r.SetServings(rb.servings); err != nil {
		return nil, err
	}
	if err := r.SetDifficulty(rb.difficulty); err != nil {
		return nil, err
	}
	if err := r.SetNutrition(rb.nutrition); err != nil {
		return nil, err
	}
	r.SetInstructions(rb.instructions)
	r.SetTags(rb.tags)
	r.ClearEvents()
	return r, nil
}

// MustBuild is Build for tests that cannot continue on error
func (rb *RecipeBuilder) MustBuild() *recipe.Recipe {
	r, err := rb.Build()
	if err != nil {
		panic(err)
	}
	return r
}

// CreateRecipe creates a random valid recipe
func (rf *RecipeFactory) CreateRecipe() *recipe.Recipe {
	return rf.NewRecipeBuilder().MustBuild()
}

// CreateStirFry creates the stir-fry used throughout the matching tests
func (rf *RecipeFactory) CreateStirFry() *recipe.Recipe {
	return rf.NewRecipeBuilder().
		WithName("Quick Chicken Stir-Fry").
		WithRequired("Chicken Breast", "Broccoli", "Carrot", "Soy Sauce").
		WithOptional("Ginger", "Garlic").
		WithServings(4).
		WithNutrition(recipe.NutritionInfo{Calories: 285, Protein: 35, Carbohydrates: 15, Fat: 8, Fiber: 4, Sugar: 5, Sodium: 650, Cholesterol: 85}).
		MustBuild()
}

// Ingredients builds recipe ingredients of quantity 1 from names
func Ingredients(names ...string) []recipe.RecipeIngredient {
	out := make([]recipe.RecipeIngredient, 0, len(names))
	for _, n := range names {
		out = append(out, recipe.RecipeIngredient{Name: n, Quantity: 1, Unit: shared.UnitItem})
	}
	return out
}

// PantryFactory provides methods to create pantry ingredients
type PantryFactory struct {
	faker *gofakeit.Faker
}

// NewPantryFactory creates a new pantry factory with seeded faker
func NewPantryFactory(seed int64) *PantryFactory {
	return &PantryFactory{faker: gofakeit.New(seed)}
}

// CreateIngredient creates a pantry ingredient with the given name
func (pf *PantryFactory) CreateIngredient(name string) *pantry.Ingredient {
	ing, err := pantry.NewIngredient(pantry.NewIngredientParams{
		Name:     name,
		Quantity: float64(pf.faker.Number(1, 5)),
	})
	if err != nil {
		panic(err)
	}
	ing.ClearEvents()
	return ing
}

// CreateRandomIngredient creates a pantry ingredient with a random food name
func (pf *PantryFactory) CreateRandomIngredient() *pantry.Ingredient {
	return pf.CreateIngredient(pf.faker.Vegetable())
}

// CreateMealPlan schedules r on date
func CreateMealPlan(r *recipe.Recipe, date time.Time, mealType mealplan.MealType) *mealplan.MealPlan {
	plan, err := mealplan.New(date, mealType, r, 1, "")
	if err != nil {
		panic(err)
	}
	return plan
}
