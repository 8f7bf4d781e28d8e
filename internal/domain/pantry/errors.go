package pantry

import "errors"

var (
	ErrEmptyName           = errors.New("ingredient name cannot be empty")
	ErrDuplicateIngredient = errors.New("ingredient already exists in pantry")
	ErrInvalidConfidence   = errors.New("confidence must be between 0 and 1")
	ErrInvalidQuantity     = errors.New("quantity cannot be negative")
	ErrInvalidCategory     = errors.New("unknown ingredient category")
	ErrInvalidUnit         = errors.New("unknown measurement unit")
)
