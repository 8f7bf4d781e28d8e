package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/mealplan"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"gorm.io/gorm"
)

// MealPlanRepository stores meal plans using GORM
type MealPlanRepository struct {
	db *gorm.DB
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *gorm.DB) *MealPlanRepository {
	return &MealPlanRepository{db: db}
}

var _ outbound.MealPlanRepository = (*MealPlanRepository)(nil)

// Save inserts a meal plan
func (r *MealPlanRepository) Save(ctx context.Context, plan *mealplan.MealPlan) error {
	return r.db.WithContext(ctx).Create(MealPlanToModel(plan)).Error
}

// Delete removes a meal plan
func (r *MealPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&MealPlanModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}
	return nil
}

// FindByID finds a meal plan by ID
func (r *MealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error) {
	var model MealPlanModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, err
	}
	return ModelToMealPlan(&model), nil
}

// FindBetween returns plans dated in [from, to). Dates are stored in UTC.
func (r *MealPlanRepository) FindBetween(ctx context.Context, from, to time.Time) ([]*mealplan.MealPlan, error) {
	var models []MealPlanModel

	result := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from.UTC(), to.UTC()).
		Order("date ASC").
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	plans := make([]*mealplan.MealPlan, len(models))
	for i := range models {
		plans[i] = ModelToMealPlan(&models[i])
	}
	return plans, nil
}
