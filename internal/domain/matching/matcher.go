// Package matching ranks recipes by how much of each one the pantry covers.
//
// A recipe's required ingredients decide whether it qualifies at all: at
// least half of them must be in the pantry. Optional ingredients only add
// to the score. Names are compared case-insensitively and nothing here
// mutates the recipes it is given, so it is safe for concurrent use.
package matching

import (
	"sort"
	"strings"

	"github.com/mealprep/pantrymatch/internal/domain/recipe"
)

const (
	// DefaultLimit is the number of matches returned when the caller has no preference
	DefaultLimit = 10

	RequiredWeight = 0.8
	OptionalWeight = 0.2

	// MinRequiredCoverage is the fraction of required ingredients a
	// recipe needs before it is considered a match
	MinRequiredCoverage = 0.5
)

// Match is one ranked result
type Match struct {
	Recipe          *recipe.Recipe
	MatchPercentage float64 // Score * 100
	Score           float64 // in [0, 1]
	RequiredScore   float64
	OptionalScore   float64
}

// NameSet is a set of lowercased ingredient names
type NameSet map[string]struct{}

// NewNameSet lowercases names into a set. Repeats collapse.
func NewNameSet(names []string) NameSet {
	set := make(NameSet, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}

func ingredientNames(ings []recipe.RecipeIngredient) NameSet {
	set := make(NameSet, len(ings))
	for _, ing := range ings {
		set[strings.ToLower(ing.Name)] = struct{}{}
	}
	return set
}

func (s NameSet) overlap(other NameSet) int {
	n := 0
	for name := range other {
		if _, ok := s[name]; ok {
			n++
		}
	}
	return n
}

// Score computes the weighted pantry coverage of r. ok is false when the
// recipe has no required ingredients; such a recipe never matches.
func Score(pantry NameSet, r *recipe.Recipe) (required, optional, total float64, ok bool) {
	req := ingredientNames(r.RequiredIngredients())
	if len(req) == 0 {
		return 0, 0, 0, false
	}
	required = float64(pantry.overlap(req)) / float64(len(req))

	if opt := ingredientNames(r.OptionalIngredients()); len(opt) > 0 {
		optional = float64(pantry.overlap(opt)) / float64(len(opt)) * OptionalWeight
	}

	return required, optional, required*RequiredWeight + optional, true
}

// FindMatchingRecipes scores every recipe in catalog against the pantry and
// returns at most limit qualifying matches, best first. Equal scores keep
// catalog order. A non-positive limit yields an empty slice.
func FindMatchingRecipes(pantryNames []string, catalog []*recipe.Recipe, limit int) []Match {
	if limit <= 0 || len(pantryNames) == 0 {
		return []Match{}
	}

	pantry := NewNameSet(pantryNames)
	matches := make([]Match, 0, len(catalog))
	for _, r := range catalog {
		if r == nil {
			continue
		}
		required, optional, total, ok := Score(pantry, r)
		if !ok || required < MinRequiredCoverage {
			continue
		}
		matches = append(matches, Match{
			Recipe:          r,
			MatchPercentage: total * 100,
			Score:           total,
			RequiredScore:   required,
			OptionalScore:   optional,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
