package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/pantry"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"gorm.io/gorm"
)

// PantryRepository stores pantry ingredients using GORM. The normalized
// name column carries a unique index.
type PantryRepository struct {
	db *gorm.DB
}

// NewPantryRepository creates a new pantry repository
func NewPantryRepository(db *gorm.DB) *PantryRepository {
	return &PantryRepository{db: db}
}

var _ outbound.PantryRepository = (*PantryRepository)(nil)

// Save inserts an ingredient
func (r *PantryRepository) Save(ctx context.Context, ing *pantry.Ingredient) error {
	err := r.db.WithContext(ctx).Create(IngredientToModel(ing)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pantry.ErrDuplicateIngredient
	}
	return err
}

// Delete removes an ingredient
func (r *PantryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&PantryIngredientModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}
	return nil
}

// FindByID finds an ingredient by ID
func (r *PantryRepository) FindByID(ctx context.Context, id uuid.UUID) (*pantry.Ingredient, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByName finds an ingredient by normalized name
func (r *PantryRepository) FindByName(ctx context.Context, name string) (*pantry.Ingredient, error) {
	return r.first(ctx, "name_key = ?", pantry.NormalizeName(name))
}

// FindAll returns the pantry in the order ingredients were added
func (r *PantryRepository) FindAll(ctx context.Context) ([]*pantry.Ingredient, error) {
	var models []PantryIngredientModel

	result := r.db.WithContext(ctx).
		Order("date_added ASC").
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	items := make([]*pantry.Ingredient, len(models))
	for i := range models {
		items[i] = ModelToIngredient(&models[i])
	}
	return items, nil
}

func (r *PantryRepository) first(ctx context.Context, query string, arg interface{}) (*pantry.Ingredient, error) {
	var model PantryIngredientModel
	if err := r.db.WithContext(ctx).First(&model, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, err
	}
	return ModelToIngredient(&model), nil
}
