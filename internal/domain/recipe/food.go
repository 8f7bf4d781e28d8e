package recipe

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxDetectedItems caps how many detected items feed recipe generation
const MaxDetectedItems = 10

var foodKeywords = []string{
	"food", "meal", "dish", "cuisine", "fruit", "vegetable", "meat", "seafood",
	"pasta", "rice", "bread", "salad", "soup", "dessert", "snack", "breakfast",
	"lunch", "dinner", "chicken", "beef", "pork", "fish", "cheese", "egg",
	"tomato", "potato", "carrot", "pizza", "burger", "sandwich", "taco", "sushi",
	"noodle", "cake", "cookie", "pie", "sauce", "spice",
}

// IsFoodRelated reports whether a label contains one of the food keywords
func IsFoodRelated(identifier string) bool {
	lower := strings.ToLower(identifier)
	for _, kw := range foodKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// FilterFoodItems keeps food-related labels, turns underscores into spaces,
// title-cases them and returns at most MaxDetectedItems.
func FilterFoodItems(items []string) []string {
	caser := cases.Title(language.Und)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if len(out) == MaxDetectedItems {
			break
		}
		if !IsFoodRelated(item) {
			continue
		}
		label := strings.TrimSpace(strings.ReplaceAll(item, "_", " "))
		out = append(out, caser.String(label))
	}
	return out
}
