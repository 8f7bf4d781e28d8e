package recipe

import (
	"fmt"

	"github.com/mealprep/pantrymatch/internal/domain/shared"
)

type sampleRecipe struct {
	name         string
	description  string
	required     []RecipeIngredient
	optional     []RecipeIngredient
	instructions []string
	prep, cook   int
	servings     int
	nutrition    NutritionInfo
	tags         []string
}

var sampleRecipes = []sampleRecipe{
	{
		name:        "Quick Chicken Stir-Fry",
		description: "A fast and healthy dinner perfect for busy families",
		required: []RecipeIngredient{
			{Name: "Chicken Breast", Quantity: 1, Unit: shared.UnitPound},
			{Name: "Broccoli", Quantity: 2, Unit: shared.UnitCup},
			{Name: "Carrot", Quantity: 2, Unit: shared.UnitItem},
			{Name: "Soy Sauce", Quantity: 3, Unit: shared.UnitTablespoon},
		},
		optional: []RecipeIngredient{
			{Name: "Ginger", Quantity: 1, Unit: shared.UnitTeaspoon},
			{Name: "Garlic", Quantity: 2, Unit: shared.UnitItem},
		},
		instructions: []string{
			"Cut chicken into bite-sized pieces",
			"Chop vegetables into uniform pieces",
			"Heat oil in wok or large pan over high heat",
			"Cook chicken until browned, about 5 minutes",
			"Add vegetables and stir-fry for 3-4 minutes",
			"Add soy sauce and cook for 1 more minute",
			"Serve immediately over rice",
		},
		prep: 10, cook: 15, servings: 4,
		nutrition: NutritionInfo{Calories: 285, Protein: 35, Carbohydrates: 15, Fat: 8, Fiber: 4, Sugar: 5, Sodium: 650, Cholesterol: 85},
		tags:      []string{"quick", "healthy", "dinner", "asian"},
	},
	{
		name:        "Simple Pasta with Tomato Sauce",
		description: "Classic comfort food that kids love",
		required: []RecipeIngredient{
			{Name: "Pasta", Quantity: 1, Unit: shared.UnitPound},
			{Name: "Tomato", Quantity: 5, Unit: shared.UnitItem},
			{Name: "Onion", Quantity: 1, Unit: shared.UnitItem},
			{Name: "Garlic", Quantity: 3, Unit: shared.UnitItem},
		},
		optional: []RecipeIngredient{
			{Name: "Basil", Quantity: 10, Unit: shared.UnitItem},
			{Name: "Parmesan Cheese", Quantity: 0.5, Unit: shared.UnitCup},
		},
		instructions: []string{
			"Boil water for pasta with salt",
			"Dice onions and mince garlic",
			"Sauté onions until translucent",
			"Add garlic and cook for 30 seconds",
			"Add chopped tomatoes and simmer for 20 minutes",
			"Cook pasta according to package directions",
			"Drain pasta and toss with sauce",
			"Top with fresh basil and cheese",
		},
		prep: 10, cook: 25, servings: 4,
		nutrition: NutritionInfo{Calories: 380, Protein: 12, Carbohydrates: 65, Fat: 6, Fiber: 5, Sugar: 8, Sodium: 420, Cholesterol: 5},
		tags:      []string{"pasta", "italian", "vegetarian", "kid-friendly"},
	},
	{
		name:        "Breakfast Scramble",
		description: "Protein-packed breakfast to start your day",
		required: []RecipeIngredient{
			{Name: "Egg", Quantity: 6, Unit: shared.UnitItem},
			{Name: "Milk", Quantity: 0.25, Unit: shared.UnitCup},
			{Name: "Cheese", Quantity: 0.5, Unit: shared.UnitCup},
		},
		optional: []RecipeIngredient{
			{Name: "Spinach", Quantity: 1, Unit: shared.UnitCup},
			{Name: "Tomato", Quantity: 1, Unit: shared.UnitItem},
			{Name: "Onion", Quantity: 0.5, Unit: shared.UnitItem},
		},
		instructions: []string{
			"Whisk eggs with milk and a pinch of salt",
			"Heat butter in non-stick pan",
			"Pour in egg mixture",
			"Gently scramble eggs until just set",
			"Add cheese and fold in",
			"Remove from heat while still slightly creamy",
		},
		prep: 5, cook: 5, servings: 3,
		nutrition: NutritionInfo{Calories: 245, Protein: 18, Carbohydrates: 3, Fat: 18, Fiber: 0, Sugar: 2, Sodium: 380, Cholesterol: 425},
		tags:      []string{"breakfast", "quick", "protein", "vegetarian"},
	},
}

// SampleCatalog builds the starter recipes shipped with the app.
// Every call returns fresh aggregates with new IDs.
func SampleCatalog() []*Recipe {
	out := make([]*Recipe, 0, len(sampleRecipes))
	for _, s := range sampleRecipes {
		out = append(out, mustBuildSample(s))
	}
	return out
}

func mustBuildSample(s sampleRecipe) *Recipe {
	r, err := NewRecipe(s.name, s.description)
	if err == nil {
		err = r.SetIngredients(s.required, s.optional)
	}
	if err == nil {
		err = r.SetTiming(s.prep, s.cook)
	}
	if err == nil {
		err = r.SetServings(s.servings)
	}
	if err == nil {
		err = r.SetNutrition(s.nutrition)
	}
	if err != nil {
		panic(fmt.Sprintf("recipe: invalid sample %q: %v", s.name, err))
	}
	r.SetInstructions(s.instructions)
	r.SetTags(s.tags)
	r.SetSource(SourceSample)
	return r
}
