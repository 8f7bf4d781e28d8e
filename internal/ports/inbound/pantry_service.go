package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/pantry"
	"github.com/mealprep/pantrymatch/internal/domain/shared"
)

// PantryService defines the use cases for the household pantry
type PantryService interface {
	AddIngredient(ctx context.Context, cmd AddIngredientCommand) (*IngredientDTO, error)
	UpdateIngredient(ctx context.Context, id uuid.UUID, cmd AddIngredientCommand) (*IngredientDTO, error)
	RemoveIngredient(ctx context.Context, id uuid.UUID) error
	ListIngredients(ctx context.Context) ([]IngredientDTO, error)
	PantryNames(ctx context.Context) ([]string, error)

	SearchFoods(ctx context.Context, query string) ([]FoodDTO, error)
	ImportFood(ctx context.Context, cmd ImportFoodCommand) (*IngredientDTO, error)
}

// AddIngredientCommand contains data for a pantry ingredient
type AddIngredientCommand struct {
	Name           string                 `json:"name" validate:"notblank,max=200"`
	Category       pantry.Category        `json:"category" validate:"omitempty,oneof=vegetable fruit protein dairy grain spice condiment other"`
	Quantity       float64                `json:"quantity" validate:"gte=0"`
	Unit           shared.MeasurementUnit `json:"unit"`
	ExpirationDate *time.Time             `json:"expiration_date"`
	Confidence     *float64               `json:"confidence" validate:"omitempty,gte=0,lte=1"`
}

// ImportFoodCommand imports a food from the nutrition provider into the pantry
type ImportFoodCommand struct {
	Query string `json:"query" validate:"notblank"`
}

// IngredientDTO for pantry ingredient data
type IngredientDTO struct {
	ID             uuid.UUID              `json:"id"`
	Name           string                 `json:"name"`
	Category       pantry.Category        `json:"category"`
	Quantity       float64                `json:"quantity"`
	Unit           shared.MeasurementUnit `json:"unit"`
	DateAdded      string                 `json:"date_added"`
	ExpirationDate *string                `json:"expiration_date,omitempty"`
	Confidence     float64                `json:"confidence"`
	Expired        bool                   `json:"expired"`
}

// FoodDTO is a food search hit
type FoodDTO struct {
	Name        string  `json:"name"`
	ServingUnit string  `json:"serving_unit"`
	ServingQty  float64 `json:"serving_qty"`
	PhotoURL    string  `json:"photo_url,omitempty"`
}
