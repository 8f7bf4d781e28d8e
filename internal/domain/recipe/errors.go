package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Entity validation errors
	ErrNameRequired       = errors.New("recipe name is required")
	ErrNameTooLong        = errors.New("recipe name must not exceed 200 characters")
	ErrDescriptionTooLong = errors.New("recipe description must not exceed 2000 characters")
	ErrInvalidServings    = errors.New("servings must be greater than 0")
	ErrInvalidTiming      = errors.New("prep and cook time must not be negative")

	// Value object errors
	ErrInvalidIngredient = errors.New("ingredient needs a name and a non-negative quantity")
	ErrInvalidUnit       = errors.New("unknown measurement unit")
	ErrInvalidDifficulty = errors.New("difficulty must be easy, medium or hard")
	ErrInvalidNutrition  = errors.New("nutrition values must not be negative")
)
