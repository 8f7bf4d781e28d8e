// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/recipe"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"gorm.io/gorm"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

var _ outbound.RecipeRepository = (*RecipeRepository)(nil)

// Create creates a new recipe
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	return r.db.WithContext(ctx).Create(RecipeToModel(rec)).Error
}

// Update overwrites every column of an existing recipe
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)

	result := r.db.WithContext(ctx).
		Model(&RecipeModel{}).
		Where("id = ?", model.ID).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}

	return nil
}

// Delete deletes a recipe by ID (soft delete)
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&RecipeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}

	return nil
}

// FindByID finds a recipe by ID
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, result.Error
	}

	return ModelToRecipe(&model), nil
}

// FindAll returns the catalog in insertion order
func (r *RecipeRepository) FindAll(ctx context.Context) ([]*recipe.Recipe, error) {
	var models []RecipeModel

	result := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}

	return recipes, nil
}

// Count returns the number of live recipes
func (r *RecipeRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&RecipeModel{}).Count(&total).Error
	return total, err
}

// BulkCreate creates multiple recipes in one statement
func (r *RecipeRepository) BulkCreate(ctx context.Context, recipes []*recipe.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	models := make([]*RecipeModel, len(recipes))
	for i, rec := range recipes {
		models[i] = RecipeToModel(rec)
	}

	return r.db.WithContext(ctx).Create(&models).Error
}

// Fingerprint returns the live recipe count and the newest update time
func (r *RecipeRepository) Fingerprint(ctx context.Context) (outbound.CatalogFingerprint, error) {
	var fp outbound.CatalogFingerprint

	count, err := r.Count(ctx)
	if err != nil {
		return fp, err
	}
	fp.Count = count
	if count == 0 {
		return fp, nil
	}

	var latest RecipeModel
	result := r.db.WithContext(ctx).
		Select("updated_at").
		Order("updated_at DESC").
		Limit(1).
		Find(&latest)
	if result.Error != nil {
		return fp, result.Error
	}
	fp.LastUpdatedAt = latest.UpdatedAt

	return fp, nil
}
