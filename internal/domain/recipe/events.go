package recipe

import (
	"time"

	"github.com/google/uuid"
)

// RecipeCreatedEvent is raised when a new recipe is created
type RecipeCreatedEvent struct {
	RecipeID  uuid.UUID `json:"recipe_id"`
	Name      string    `json:"name"`
	Source    Source    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

func (e RecipeCreatedEvent) EventName() string {
	return "recipe.created"
}

func (e RecipeCreatedEvent) OccurredAt() time.Time {
	return e.CreatedAt
}

// RecipeUpdatedEvent is raised once per batch of changes to a recipe
type RecipeUpdatedEvent struct {
	RecipeID  uuid.UUID `json:"recipe_id"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e RecipeUpdatedEvent) EventName() string {
	return "recipe.updated"
}

func (e RecipeUpdatedEvent) OccurredAt() time.Time {
	return e.UpdatedAt
}

// RecipeDeletedEvent is raised when a recipe is removed from the catalog
type RecipeDeletedEvent struct {
	RecipeID  uuid.UUID `json:"recipe_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

func (e RecipeDeletedEvent) EventName() string {
	return "recipe.deleted"
}

func (e RecipeDeletedEvent) OccurredAt() time.Time {
	return e.DeletedAt
}
