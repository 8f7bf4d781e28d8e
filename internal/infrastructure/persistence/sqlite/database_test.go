package sqlite

import (
	"path/filepath"
	"testing"

	gormModels "github.com/mealprep/pantrymatch/internal/infrastructure/persistence/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestSetupDatabase_InMemory(t *testing.T) {
	db, err := SetupDatabase("", logger.Silent)
	require.NoError(t, err)

	for _, model := range gormModels.AllModels() {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}
}

func TestSetupDatabase_FileIsReopenable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pantrymatch.db")

	db, err := SetupDatabase(path, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, db.Create(&gormModels.PantryIngredientModel{Name: "Egg", NameKey: "egg"}).Error)
	sqlDB, _ := db.DB()
	require.NoError(t, sqlDB.Close())

	reopened, err := SetupDatabase(path, logger.Silent)
	require.NoError(t, err)
	var count int64
	require.NoError(t, reopened.Model(&gormModels.PantryIngredientModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
