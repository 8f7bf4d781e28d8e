package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/mealplan"
	"github.com/mealprep/pantrymatch/internal/domain/pantry"
	"github.com/mealprep/pantrymatch/internal/domain/recipe"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
)

// RecipeRepository keeps the catalog in memory. Recipes are stored as
// snapshots so callers never share state with the store.
type RecipeRepository struct {
	mu      sync.RWMutex
	order   []uuid.UUID
	recipes map[uuid.UUID]recipe.Snapshot
}

// NewRecipeRepository creates an empty in-memory catalog
func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{recipes: make(map[uuid.UUID]recipe.Snapshot)}
}

var _ outbound.RecipeRepository = (*RecipeRepository)(nil)

func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insert(rec)
	return nil
}

func (r *RecipeRepository) BulkCreate(ctx context.Context, recipes []*recipe.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range recipes {
		r.insert(rec)
	}
	return nil
}

func (r *RecipeRepository) insert(rec *recipe.Recipe) {
	if _, ok := r.recipes[rec.ID()]; !ok {
		r.order = append(r.order, rec.ID())
	}
	r.recipes[rec.ID()] = rec.Snapshot()
}

func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recipes[rec.ID()]; !ok {
		return outbound.ErrNotFound
	}
	r.recipes[rec.ID()] = rec.Snapshot()
	return nil
}

func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recipes[id]; !ok {
		return outbound.ErrNotFound
	}
	delete(r.recipes, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.recipes[id]
	if !ok {
		return nil, outbound.ErrNotFound
	}
	return recipe.Reconstitute(s), nil
}

// FindAll returns the catalog in insertion order
func (r *RecipeRepository) FindAll(ctx context.Context) ([]*recipe.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*recipe.Recipe, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, recipe.Reconstitute(r.recipes[id]))
	}
	return out, nil
}

func (r *RecipeRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.recipes)), nil
}

func (r *RecipeRepository) Fingerprint(ctx context.Context) (outbound.CatalogFingerprint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fp := outbound.CatalogFingerprint{Count: int64(len(r.recipes))}
	for _, s := range r.recipes {
		if s.UpdatedAt.After(fp.LastUpdatedAt) {
			fp.LastUpdatedAt = s.UpdatedAt
		}
	}
	return fp, nil
}

// PantryRepository keeps pantry ingredients in memory
type PantryRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]pantry.Snapshot
}

// NewPantryRepository creates an empty in-memory pantry
func NewPantryRepository() *PantryRepository {
	return &PantryRepository{items: make(map[uuid.UUID]pantry.Snapshot)}
}

var _ outbound.PantryRepository = (*PantryRepository)(nil)

// Save inserts an ingredient, rejecting a normalized name already stored
func (r *PantryRepository) Save(ctx context.Context, ing *pantry.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := ing.Key()
	for id, s := range r.items {
		if id != ing.ID() && pantry.NormalizeName(s.Name) == key {
			return pantry.ErrDuplicateIngredient
		}
	}
	r.items[ing.ID()] = ing.Snapshot()
	return nil
}

func (r *PantryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return outbound.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *PantryRepository) FindByID(ctx context.Context, id uuid.UUID) (*pantry.Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return nil, outbound.ErrNotFound
	}
	return pantry.Reconstitute(s), nil
}

func (r *PantryRepository) FindByName(ctx context.Context, name string) (*pantry.Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := pantry.NormalizeName(name)
	for _, s := range r.items {
		if pantry.NormalizeName(s.Name) == key {
			return pantry.Reconstitute(s), nil
		}
	}
	return nil, outbound.ErrNotFound
}

// FindAll returns ingredients ordered by date added, then ID
func (r *PantryRepository) FindAll(ctx context.Context) ([]*pantry.Ingredient, error) {
	r.mu.RLock()
	snaps := make([]pantry.Snapshot, 0, len(r.items))
	for _, s := range r.items {
		snaps = append(snaps, s)
	}
	r.mu.RUnlock()

	SortSnapshots(snaps)
	out := make([]*pantry.Ingredient, len(snaps))
	for i, s := range snaps {
		out[i] = pantry.Reconstitute(s)
	}
	return out, nil
}

// SortSnapshots orders pantry snapshots by date added, then ID
func SortSnapshots(snaps []pantry.Snapshot) {
	sort.Slice(snaps, func(i, j int) bool {
		if !snaps[i].DateAdded.Equal(snaps[j].DateAdded) {
			return snaps[i].DateAdded.Before(snaps[j].DateAdded)
		}
		return snaps[i].ID.String() < snaps[j].ID.String()
	})
}

// MealPlanRepository keeps meal plans in memory
type MealPlanRepository struct {
	mu    sync.RWMutex
	plans map[uuid.UUID]mealplan.MealPlan
}

// NewMealPlanRepository creates an empty in-memory meal plan store
func NewMealPlanRepository() *MealPlanRepository {
	return &MealPlanRepository{plans: make(map[uuid.UUID]mealplan.MealPlan)}
}

var _ outbound.MealPlanRepository = (*MealPlanRepository)(nil)

func (r *MealPlanRepository) Save(ctx context.Context, plan *mealplan.MealPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[plan.ID] = *plan
	return nil
}

func (r *MealPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return outbound.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

func (r *MealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, outbound.ErrNotFound
	}
	return &p, nil
}

func (r *MealPlanRepository) FindBetween(ctx context.Context, from, to time.Time) ([]*mealplan.MealPlan, error) {
	r.mu.RLock()
	out := make([]*mealplan.MealPlan, 0)
	for _, p := range r.plans {
		if !p.Date.Before(from) && p.Date.Before(to) {
			p := p
			out = append(out, &p)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}
