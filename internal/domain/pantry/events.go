package pantry

import (
	"time"

	"github.com/google/uuid"
)

// IngredientAddedEvent is raised when an ingredient enters the pantry
type IngredientAddedEvent struct {
	IngredientID uuid.UUID `json:"ingredient_id"`
	Name         string    `json:"name"`
	AddedAt      time.Time `json:"added_at"`
}

func (e IngredientAddedEvent) EventName() string     { return "pantry.ingredient.added" }
func (e IngredientAddedEvent) OccurredAt() time.Time { return e.AddedAt }

// IngredientRemovedEvent is raised when an ingredient leaves the pantry
type IngredientRemovedEvent struct {
	IngredientID uuid.UUID `json:"ingredient_id"`
	Name         string    `json:"name"`
	RemovedAt    time.Time `json:"removed_at"`
}

func (e IngredientRemovedEvent) EventName() string     { return "pantry.ingredient.removed" }
func (e IngredientRemovedEvent) OccurredAt() time.Time { return e.RemovedAt }
