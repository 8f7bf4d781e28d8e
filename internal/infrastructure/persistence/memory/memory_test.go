package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/mealplan"
	"github.com/mealprep/pantrymatch/internal/domain/pantry"
	"github.com/mealprep/pantrymatch/internal/domain/recipe"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"github.com/mealprep/pantrymatch/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRepository(t *testing.T) {
	ctx := context.Background()
	cache := NewCacheRepository()
	t.Cleanup(func() { _ = cache.Close() })

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	_, err := cache.Get(ctx, "missing")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "matches:a", []byte("one"), time.Minute))
	require.NoError(t, cache.Set(ctx, "matches:b", []byte("two"), time.Hour))
	require.NoError(t, cache.Set(ctx, "other", []byte("three"), 0))

	got, err := cache.Get(ctx, "matches:a")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), got)

	now = now.Add(2 * time.Minute)
	_, err = cache.Get(ctx, "matches:a")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	ok, _ := cache.Exists(ctx, "matches:a")
	assert.False(t, ok)
	cache.sweep()
	assert.Equal(t, 2, cache.Len())

	require.NoError(t, cache.DeletePrefix(ctx, "matches:"))
	ok, _ = cache.Exists(ctx, "matches:b")
	assert.False(t, ok)
	ok, _ = cache.Exists(ctx, "other")
	assert.True(t, ok)

	require.NoError(t, cache.Delete(ctx, "other"))
	assert.Zero(t, cache.Len())
}

func TestRecipeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRecipeRepository()
	catalog := recipe.SampleCatalog()
	require.NoError(t, repo.BulkCreate(ctx, catalog))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, catalog[1].ID(), all[1].ID())

	// callers cannot mutate stored state
	require.NoError(t, all[0].Rename("Changed"))
	stored, err := repo.FindByID(ctx, catalog[0].ID())
	require.NoError(t, err)
	assert.Equal(t, catalog[0].Name(), stored.Name())

	before, _ := repo.Fingerprint(ctx)
	require.NoError(t, repo.Update(ctx, all[0]))
	after, _ := repo.Fingerprint(ctx)
	assert.Equal(t, before.Count, after.Count)
	assert.False(t, after.LastUpdatedAt.Before(before.LastUpdatedAt))

	require.NoError(t, repo.Delete(ctx, catalog[1].ID()))
	assert.ErrorIs(t, repo.Delete(ctx, catalog[1].ID()), outbound.ErrNotFound)
	all, _ = repo.FindAll(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, catalog[2].ID(), all[1].ID())

	orphan, _ := recipe.NewRecipe("Orphan", "")
	assert.ErrorIs(t, repo.Update(ctx, orphan), outbound.ErrNotFound)
}

func TestPantryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPantryRepository()
	pf := testutils.NewPantryFactory(9)

	rice := pf.CreateIngredient("Rice")
	require.NoError(t, repo.Save(ctx, rice))
	assert.ErrorIs(t, repo.Save(ctx, pf.CreateIngredient(" RICE ")), pantry.ErrDuplicateIngredient)

	found, err := repo.FindByName(ctx, "rice")
	require.NoError(t, err)
	assert.Equal(t, rice.ID(), found.ID())

	_, err = repo.FindByName(ctx, "quinoa")
	assert.ErrorIs(t, err, outbound.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, rice.ID()))
	_, err = repo.FindByID(ctx, rice.ID())
	assert.ErrorIs(t, err, outbound.ErrNotFound)
}

func TestSortSnapshots(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	a := pantry.Snapshot{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), DateAdded: base}
	b := pantry.Snapshot{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), DateAdded: base}
	c := pantry.Snapshot{ID: uuid.New(), DateAdded: base.Add(-time.Hour)}

	snaps := []pantry.Snapshot{a, b, c}
	SortSnapshots(snaps)

	assert.Equal(t, []pantry.Snapshot{c, b, a}, snaps)
}

func TestMealPlanRepository_FindBetween(t *testing.T) {
	ctx := context.Background()
	repo := NewMealPlanRepository()
	stirFry := recipe.SampleCatalog()[0]
	day := time.Date(2025, 11, 26, 0, 0, 0, 0, time.UTC)

	lunch := testutils.CreateMealPlan(stirFry, day.Add(12*time.Hour), mealplan.MealTypeLunch)
	breakfast := testutils.CreateMealPlan(stirFry, day.Add(8*time.Hour), mealplan.MealTypeBreakfast)
	tomorrow := testutils.CreateMealPlan(stirFry, day.AddDate(0, 0, 1), mealplan.MealTypeBreakfast)
	for _, p := range []*mealplan.MealPlan{lunch, breakfast, tomorrow} {
		require.NoError(t, repo.Save(ctx, p))
	}

	got, err := repo.FindBetween(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, breakfast.ID, got[0].ID)
	assert.Equal(t, lunch.ID, got[1].ID)

	require.NoError(t, repo.Delete(ctx, lunch.ID))
	_, err = repo.FindByID(ctx, lunch.ID)
	assert.ErrorIs(t, err, outbound.ErrNotFound)
}
