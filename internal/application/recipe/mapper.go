package recipe

import (
	"strconv"
	"strings"
	"time"

	"github.com/mealprep/pantrymatch/internal/domain/matching"
	"github.com/mealprep/pantrymatch/internal/domain/recipe"
	"github.com/mealprep/pantrymatch/internal/domain/shared"
	"github.com/mealprep/pantrymatch/internal/ports/inbound"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
)

// ToDTO converts a recipe aggregate to its transfer object
func ToDTO(r *recipe.Recipe) inbound.RecipeDTO {
	return inbound.RecipeDTO{
		ID:                  r.ID(),
		Name:                r.Name(),
		Description:         r.Description(),
		RequiredIngredients: ingredientsToDTO(r.RequiredIngredients()),
		OptionalIngredients: ingredientsToDTO(r.OptionalIngredients()),
		Instructions:        nonNil(r.Instructions()),
		PrepTime:            r.PrepTime(),
		CookTime:            r.CookTime(),
		TotalTime:           r.TotalTime(),
		Servings:            r.Servings(),
		Difficulty:          r.Difficulty(),
		Nutrition:           NutritionToDTO(r.Nutrition()),
		ImageURL:            r.ImageURL(),
		Tags:                nonNil(r.Tags()),
		Source:              r.Source(),
		Version:             r.Version(),
		CreatedAt:           r.CreatedAt().Format(time.RFC3339),
		UpdatedAt:           r.UpdatedAt().Format(time.RFC3339),
	}
}

// NutritionToDTO converts nutrition values to their transfer object
func NutritionToDTO(n recipe.NutritionInfo) inbound.NutritionDTO {
	return inbound.NutritionDTO(n)
}

// NutritionFromDTO converts a nutrition transfer object to the domain value
func NutritionFromDTO(n inbound.NutritionDTO) recipe.NutritionInfo {
	return recipe.NutritionInfo(n)
}

func matchesToDTO(matches []matching.Match) []inbound.MatchDTO {
	out := make([]inbound.MatchDTO, 0, len(matches))
	for _, m := range matches {
		out = append(out, inbound.MatchDTO{
			Recipe:          ToDTO(m.Recipe),
			MatchPercentage: m.MatchPercentage,
			Score:           m.Score,
		})
	}
	return out
}

func ingredientsToDTO(in []recipe.RecipeIngredient) []inbound.RecipeIngredientDTO {
	out := make([]inbound.RecipeIngredientDTO, 0, len(in))
	for _, ing := range in {
		out = append(out, inbound.RecipeIngredientDTO(ing))
	}
	return out
}

func ingredientsFromCommand(in []inbound.RecipeIngredientCommand) []recipe.RecipeIngredient {
	out := make([]recipe.RecipeIngredient, 0, len(in))
	for _, ing := range in {
		out = append(out, recipe.RecipeIngredient(ing))
	}
	return out
}

func generatedToDTO(g *outbound.GeneratedRecipe) *inbound.GeneratedRecipeDTO {
	ings := make([]inbound.GeneratedIngredientDTO, 0, len(g.Ingredients))
	for _, ing := range g.Ingredients {
		ings = append(ings, inbound.GeneratedIngredientDTO(ing))
	}
	return &inbound.GeneratedRecipeDTO{
		Name:          g.Name,
		Description:   g.Description,
		Ingredients:   ings,
		Instructions:  nonNil(g.Instructions),
		PrepTime:      g.PrepTime,
		Servings:      g.Servings,
		Confidence:    g.Confidence,
		DetectedItems: nonNil(g.DetectedItems),
	}
}

// generatedToRecipe turns a generated draft into a catalog recipe. Every
// ingredient is required and counted in items; quantities that do not
// parse as numbers become 1.
func generatedToRecipe(g *outbound.GeneratedRecipe) (*recipe.Recipe, error) {
	r, err := recipe.NewRecipe(g.Name, g.Description)
	if err != nil {
		return nil, err
	}

	required := make([]recipe.RecipeIngredient, 0, len(g.Ingredients))
	for _, ing := range g.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			continue
		}
		qty, err := strconv.ParseFloat(strings.TrimSpace(ing.Quantity), 64)
		if err != nil || qty < 0 {
			qty = 1
		}
		required = append(required, recipe.RecipeIngredient{Name: ing.Name, Quantity: qty, Unit: shared.UnitItem})
	}
	if err := r.SetIngredients(required, nil); err != nil {
		return nil, err
	}

	prep := g.PrepTime
	if prep < 0 {
		prep = 0
	}
	if err := r.SetTiming(prep, 0); err != nil {
		return nil, err
	}
	if g.Servings > 0 {
		if err := r.SetServings(g.Servings); err != nil {
			return nil, err
		}
	}
	r.SetInstructions(g.Instructions)
	r.SetSource(recipe.SourceGenerated)
	return r, nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
