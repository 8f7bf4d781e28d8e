// Package gorm provides GORM model definitions for the application
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/recipe"
	"gorm.io/gorm"
)

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	Version     int64     `gorm:"default:1"`
	Name        string    `gorm:"type:varchar(200);not null;index"`
	Description string    `gorm:"type:text"`

	// Recipe details
	RequiredIngredients IngredientList `gorm:"type:json"`
	OptionalIngredients IngredientList `gorm:"type:json"`
	Instructions        StringSlice    `gorm:"type:json"`
	Nutrition           NutritionModel `gorm:"embedded;embeddedPrefix:nutrition_"`

	// Timing (stored in minutes)
	PrepTimeMinutes int `gorm:"column:prep_time_minutes;default:0"`
	CookTimeMinutes int `gorm:"column:cook_time_minutes;default:0"`

	Servings   int         `gorm:"default:1"`
	Difficulty string      `gorm:"type:varchar(20);index"`
	Tags       StringSlice `gorm:"type:json"`
	ImageURL   string      `gorm:"type:text"`
	Source     string      `gorm:"type:varchar(20);default:'manual';index"`

	CreatedAt time.Time      `gorm:"index"`
	UpdatedAt time.Time      `gorm:"index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// NutritionModel is embedded into tables that carry nutrition columns
type NutritionModel struct {
	Calories      float64 `gorm:"default:0"`
	Protein       float64 `gorm:"default:0"`
	Carbohydrates float64 `gorm:"default:0"`
	Fat           float64 `gorm:"default:0"`
	Fiber         float64 `gorm:"default:0"`
	Sugar         float64 `gorm:"default:0"`
	Sodium        float64 `gorm:"default:0"`
	Cholesterol   float64 `gorm:"default:0"`
}

// PantryIngredientModel represents the GORM model for pantry ingredients
type PantryIngredientModel struct {
	ID             uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name           string    `gorm:"type:varchar(200);not null"`
	NameKey        string    `gorm:"type:varchar(200);not null;uniqueIndex"` // normalized name
	Category       string    `gorm:"type:varchar(20);index"`
	Quantity       float64   `gorm:"default:1"`
	Unit           string    `gorm:"type:varchar(20);default:'item'"`
	Confidence     float64   `gorm:"default:1"`
	DateAdded      time.Time `gorm:"index"`
	ExpirationDate *time.Time
}

// MealPlanModel represents the GORM model for meal plans
type MealPlanModel struct {
	ID       uuid.UUID `gorm:"type:char(36);primaryKey"`
	Date     time.Time `gorm:"not null;index"`
	MealType string    `gorm:"type:varchar(20);not null"`
	Servings int       `gorm:"default:1"`
	Notes    string    `gorm:"type:text"`

	// Copy of the recipe taken when the plan was made
	RecipeID        uuid.UUID      `gorm:"type:char(36);not null;index"`
	RecipeName      string         `gorm:"type:varchar(200)"`
	RecipeServings  int            `gorm:"default:1"`
	RecipeNutrition NutritionModel `gorm:"embedded;embeddedPrefix:nutrition_"`

	CreatedAt time.Time
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	return scanJSON(value, s)
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return marshalJSON(s)
}

// IngredientList stores recipe ingredients as a JSON array
type IngredientList []recipe.RecipeIngredient

// Scan implements the sql.Scanner interface
func (l *IngredientList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// Value implements the driver.Valuer interface
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return marshalJSON(l)
}

func scanJSON(value interface{}, dst interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("cannot scan %T into %T", value, dst)
	}
}

func marshalJSON(v interface{}) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// BeforeCreate hook for RecipeModel
func (r *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for PantryIngredientModel
func (p *PantryIngredientModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for MealPlanModel
func (m *MealPlanModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName methods for custom table names
func (RecipeModel) TableName() string {
	return "recipes"
}

func (PantryIngredientModel) TableName() string {
	return "pantry_ingredients"
}

func (MealPlanModel) TableName() string {
	return "meal_plans"
}

// AllModels lists the models AutoMigrate must create
func AllModels() []interface{} {
	return []interface{}{
		&RecipeModel{},
		&PantryIngredientModel{},
		&MealPlanModel{},
	}
}
