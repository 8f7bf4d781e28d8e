package pantry

import "strings"

// Category groups pantry ingredients
type Category string

const (
	CategoryVegetable Category = "vegetable"
	CategoryFruit     Category = "fruit"
	CategoryProtein   Category = "protein"
	CategoryDairy     Category = "dairy"
	CategoryGrain     Category = "grain"
	CategorySpice     Category = "spice"
	CategoryCondiment Category = "condiment"
	CategoryOther     Category = "other"
)

// IsValid reports whether c is a known category
func (c Category) IsValid() bool {
	switch c {
	case CategoryVegetable, CategoryFruit, CategoryProtein, CategoryDairy,
		CategoryGrain, CategorySpice, CategoryCondiment, CategoryOther:
		return true
	}
	return false
}

// Rules are checked in order and the first hit wins, so "pepper" is a
// vegetable even though it is also listed under spice.
var categoryRules = []struct {
	category Category
	keywords []string
}{
	{CategoryVegetable, []string{"tomato", "lettuce", "carrot", "broccoli", "spinach", "pepper", "onion", "celery"}},
	{CategoryFruit, []string{"apple", "banana", "orange", "berry", "grape", "melon"}},
	{CategoryProtein, []string{"chicken", "beef", "pork", "fish", "egg", "tofu", "bean", "lentil"}},
	{CategoryDairy, []string{"milk", "cheese", "yogurt", "butter", "cream"}},
	{CategoryGrain, []string{"rice", "bread", "pasta", "oat", "flour", "cereal"}},
	{CategorySpice, []string{"pepper", "salt", "garlic", "ginger", "cumin", "basil"}},
}

// Categorize guesses a category from substrings of the ingredient name
func Categorize(name string) Category {
	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryOther
}

// NormalizeName is the key used to compare pantry names: trimmed,
// inner whitespace collapsed, lowercased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
