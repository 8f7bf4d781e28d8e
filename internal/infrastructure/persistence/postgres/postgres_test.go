//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/mealprep/pantrymatch/internal/domain/pantry"
	"github.com/mealprep/pantrymatch/internal/domain/recipe"
	"github.com/mealprep/pantrymatch/internal/infrastructure/config"
	repo "github.com/mealprep/pantrymatch/internal/infrastructure/persistence/gorm"
	"github.com/mealprep/pantrymatch/internal/infrastructure/persistence/migrations"
	"github.com/mealprep/pantrymatch/internal/infrastructure/persistence/postgres"
	"github.com/mealprep/pantrymatch/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPostgres_MigrateAndPersist(t *testing.T) {
	ctx := context.Background()
	pg := testutils.StartPostgres(t)
	log := zap.NewNop()

	require.NoError(t, migrations.Run(pg.DSN(), log))
	// a second run finds nothing to do
	require.NoError(t, migrations.Run(pg.DSN(), log))

	db, err := postgres.Open(ctx, config.DatabaseConfig{MaxOpenConns: 4}, pg.DSN(), log)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	recipes := repo.NewRecipeRepository(db)
	require.NoError(t, recipes.BulkCreate(ctx, recipe.SampleCatalog()))

	all, err := recipes.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	names := make([]string, 0, len(all))
	for _, r := range all {
		names = append(names, r.Name())
		assert.NotEmpty(t, r.RequiredIngredients())
	}
	assert.ElementsMatch(t, []string{"Quick Chicken Stir-Fry", "Simple Pasta with Tomato Sauce", "Breakfast Scramble"}, names)

	fp, err := recipes.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), fp.Count)

	items := repo.NewPantryRepository(db)
	factory := testutils.NewPantryFactory(5)
	require.NoError(t, items.Save(ctx, factory.CreateIngredient("Garlic")))
	err = items.Save(ctx, factory.CreateIngredient("garlic"))
	assert.ErrorIs(t, err, pantry.ErrDuplicateIngredient)
}
