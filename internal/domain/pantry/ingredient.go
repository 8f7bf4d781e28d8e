// Package pantry models the ingredients a household has on hand.
package pantry

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/shared"
)

// Ingredient is a single pantry item
type Ingredient struct {
	shared.AggregateRoot

	id             uuid.UUID
	name           string
	category       Category
	quantity       float64
	unit           shared.MeasurementUnit
	dateAdded      time.Time
	expirationDate *time.Time
	confidence     float64
}

// NewIngredientParams carries the optional attributes of a new ingredient.
// Zero values pick the defaults: category from Categorize, quantity 1,
// unit item, confidence 1.
type NewIngredientParams struct {
	Name           string
	Category       Category
	Quantity       float64
	Unit           shared.MeasurementUnit
	ExpirationDate *time.Time
	Confidence     *float64
}

// NewIngredient validates params and creates an ingredient
func NewIngredient(p NewIngredientParams) (*Ingredient, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if p.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	category := p.Category
	if category == "" {
		category = Categorize(name)
	} else if !category.IsValid() {
		return nil, ErrInvalidCategory
	}

	unit := p.Unit.OrDefault()
	if !unit.IsValid() {
		return nil, ErrInvalidUnit
	}

	quantity := p.Quantity
	if quantity == 0 {
		quantity = 1
	}

	confidence := 1.0
	if p.Confidence != nil {
		confidence = *p.Confidence
		if confidence < 0 || confidence > 1 {
			return nil, ErrInvalidConfidence
		}
	}

	now := time.Now().UTC()
	ing := &Ingredient{
		id:             uuid.New(),
		name:           name,
		category:       category,
		quantity:       quantity,
		unit:           unit,
		dateAdded:      now,
		expirationDate: p.ExpirationDate,
		confidence:     confidence,
	}
	ing.AddEvent(IngredientAddedEvent{IngredientID: ing.id, Name: name, AddedAt: now})
	return ing, nil
}

func (i *Ingredient) ID() uuid.UUID                { return i.id }
func (i *Ingredient) Name() string                 { return i.name }
func (i *Ingredient) Category() Category           { return i.category }
func (i *Ingredient) Quantity() float64            { return i.quantity }
func (i *Ingredient) Unit() shared.MeasurementUnit { return i.unit }
func (i *Ingredient) DateAdded() time.Time         { return i.dateAdded }
func (i *Ingredient) ExpirationDate() *time.Time   { return i.expirationDate }
func (i *Ingredient) Confidence() float64          { return i.confidence }

// Key is the normalized name used for duplicate detection
func (i *Ingredient) Key() string {
	return NormalizeName(i.name)
}

// IsExpired reports whether the expiration date has passed
func (i *Ingredient) IsExpired(now time.Time) bool {
	return i.expirationDate != nil && now.After(*i.expirationDate)
}

// MarkRemoved records the removal event
func (i *Ingredient) MarkRemoved() {
	i.AddEvent(IngredientRemovedEvent{IngredientID: i.id, Name: i.name, RemovedAt: time.Now().UTC()})
}

// Snapshot is the storage representation of an ingredient
type Snapshot struct {
	ID             uuid.UUID              `json:"id"`
	Name           string                 `json:"name"`
	Category       Category               `json:"category"`
	Quantity       float64                `json:"quantity"`
	Unit           shared.MeasurementUnit `json:"unit"`
	DateAdded      time.Time              `json:"date_added"`
	ExpirationDate *time.Time             `json:"expiration_date,omitempty"`
	Confidence     float64                `json:"confidence"`
}

func (i *Ingredient) Snapshot() Snapshot {
	return Snapshot{
		ID:             i.id,
		Name:           i.name,
		Category:       i.category,
		Quantity:       i.quantity,
		Unit:           i.unit,
		DateAdded:      i.dateAdded,
		ExpirationDate: i.expirationDate,
		Confidence:     i.confidence,
	}
}

// Reconstitute rebuilds an ingredient from storage without raising events
func Reconstitute(s Snapshot) *Ingredient {
	return &Ingredient{
		id:             s.ID,
		name:           s.Name,
		category:       s.Category,
		quantity:       s.Quantity,
		unit:           s.Unit,
		dateAdded:      s.DateAdded,
		expirationDate: s.ExpirationDate,
		confidence:     s.Confidence,
	}
}
