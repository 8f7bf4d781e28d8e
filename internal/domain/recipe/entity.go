// Package recipe contains the core domain logic for the recipe catalog.
package recipe

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/shared"
)

const (
	maxNameLength        = 200
	maxDescriptionLength = 2000
)

// Recipe is the catalog aggregate. Fields are private so every change
// goes through a validating mutator.
type Recipe struct {
	shared.AggregateRoot

	id      uuid.UUID
	version int64

	name        string
	description string

	requiredIngredients []RecipeIngredient
	optionalIngredients []RecipeIngredient
	instructions        []string

	prepTime   int // minutes
	cookTime   int // minutes
	servings   int
	difficulty DifficultyLevel
	nutrition  NutritionInfo

	imageURL string
	tags     []string
	source   Source

	createdAt time.Time
	updatedAt time.Time

	// set between the first mutation and the next Events drain
	dirty bool
}

// NewRecipe creates a new Recipe with validation
func NewRecipe(name, description string) (*Recipe, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	recipe := &Recipe{
		id:          uuid.New(),
		version:     1,
		name:        name,
		description: description,
		servings:    1,
		difficulty:  DifficultyLevelEasy,
		source:      SourceManual,
		createdAt:   now,
		updatedAt:   now,
		dirty:       true,
	}

	recipe.AddEvent(RecipeCreatedEvent{
		RecipeID:  recipe.id,
		Name:      name,
		Source:    recipe.source,
		CreatedAt: now,
	})

	return recipe, nil
}

func (r *Recipe) ID() uuid.UUID               { return r.id }
func (r *Recipe) Version() int64              { return r.version }
func (r *Recipe) Name() string                { return r.name }
func (r *Recipe) Description() string         { return r.description }
func (r *Recipe) PrepTime() int               { return r.prepTime }
func (r *Recipe) CookTime() int               { return r.cookTime }
func (r *Recipe) TotalTime() int              { return r.prepTime + r.cookTime }
func (r *Recipe) Servings() int               { return r.servings }
func (r *Recipe) Difficulty() DifficultyLevel { return r.difficulty }
func (r *Recipe) Nutrition() NutritionInfo    { return r.nutrition }
func (r *Recipe) ImageURL() string            { return r.imageURL }
func (r *Recipe) Source() Source              { return r.source }
func (r *Recipe) CreatedAt() time.Time        { return r.createdAt }
func (r *Recipe) UpdatedAt() time.Time        { return r.updatedAt }
func (r *Recipe) Tags() []string              { return append([]string(nil), r.tags...) }
func (r *Recipe) Instructions() []string      { return append([]string(nil), r.instructions...) }
func (r *Recipe) RequiredIngredients() []RecipeIngredient {
	return append([]RecipeIngredient(nil), r.requiredIngredients...)
}
func (r *Recipe) OptionalIngredients() []RecipeIngredient {
	return append([]RecipeIngredient(nil), r.optionalIngredients...)
}

// Rename changes the recipe name
func (r *Recipe) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	r.name = name
	r.touch()
	return nil
}

// SetDescription replaces the description
func (r *Recipe) SetDescription(description string) error {
	if err := validateDescription(description); err != nil {
		return err
	}
	r.description = description
	r.touch()
	return nil
}

// SetIngredients replaces both ingredient lists. Empty units become item.
func (r *Recipe) SetIngredients(required, optional []RecipeIngredient) error {
	req, err := normalizeIngredients(required)
	if err != nil {
		return err
	}
	opt, err := normalizeIngredients(optional)
	if err != nil {
		return err
	}
	r.requiredIngredients = req
	r.optionalIngredients = opt
	r.touch()
	return nil
}

// SetInstructions replaces the steps, dropping blank lines
func (r *Recipe) SetInstructions(steps []string) {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	r.instructions = out
	r.touch()
}

// SetTiming sets prep and cook time in minutes
func (r *Recipe) SetTiming(prep, cook int) error {
	if prep < 0 || cook < 0 {
		return ErrInvalidTiming
	}
	r.prepTime = prep
	r.cookTime = cook
	r.touch()
	return nil
}

func (r *Recipe) SetServings(servings int) error {
	if servings < 1 {
		return ErrInvalidServings
	}
	r.servings = servings
	r.touch()
	return nil
}

func (r *Recipe) SetDifficulty(d DifficultyLevel) error {
	if !d.IsValid() {
		return ErrInvalidDifficulty
	}
	r.difficulty = d
	r.touch()
	return nil
}

func (r *Recipe) SetNutrition(n NutritionInfo) error {
	if err := n.Validate(); err != nil {
		return err
	}
	r.nutrition = n
	r.touch()
	return nil
}

// SetTags replaces the tags. Blank and repeated tags are dropped.
func (r *Recipe) SetTags(tags []string) {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	r.tags = out
	r.touch()
}

func (r *Recipe) SetImageURL(url string) {
	r.imageURL = strings.TrimSpace(url)
	r.touch()
}

// SetSource marks where the recipe came from. It does not count as an edit.
func (r *Recipe) SetSource(s Source) {
	r.source = s
}

// MarkDeleted records the deletion event
func (r *Recipe) MarkDeleted() {
	r.AddEvent(RecipeDeletedEvent{RecipeID: r.id, DeletedAt: time.Now().UTC()})
}

// Events returns and clears pending domain events
func (r *Recipe) Events() []shared.DomainEvent {
	r.dirty = false
	return r.AggregateRoot.Events()
}

// ClearEvents drops pending domain events
func (r *Recipe) ClearEvents() {
	r.dirty = false
	r.AggregateRoot.ClearEvents()
}

// touch bumps updatedAt on every change, and the version plus an
// update event once per batch of changes.
func (r *Recipe) touch() {
	r.updatedAt = time.Now().UTC()
	if r.dirty {
		return
	}
	r.dirty = true
	r.version++
	r.AddEvent(RecipeUpdatedEvent{RecipeID: r.id, Version: r.version, UpdatedAt: r.updatedAt})
}

func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

func normalizeIngredients(in []RecipeIngredient) ([]RecipeIngredient, error) {
	out := make([]RecipeIngredient, 0, len(in))
	for _, ing := range in {
		if err := ing.Validate(); err != nil {
			return nil, err
		}
		ing.Name = strings.TrimSpace(ing.Name)
		ing.Unit = ing.Unit.OrDefault()
		out = append(out, ing)
	}
	return out, nil
}

// Snapshot is the storage representation of a recipe
type Snapshot struct {
	ID                  uuid.UUID
	Version             int64
	Name                string
	Description         string
	RequiredIngredients []RecipeIngredient
	OptionalIngredients []RecipeIngredient
	Instructions        []string
	PrepTime            int
	CookTime            int
	Servings            int
	Difficulty          DifficultyLevel
	Nutrition           NutritionInfo
	ImageURL            string
	Tags                []string
	Source              Source
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Snapshot copies the recipe state out of the aggregate
func (r *Recipe) Snapshot() Snapshot {
	return Snapshot{
		ID:                  r.id,
		Version:             r.version,
		Name:                r.name,
		Description:         r.description,
		RequiredIngredients: r.RequiredIngredients(),
		OptionalIngredients: r.OptionalIngredients(),
		Instructions:        r.Instructions(),
		PrepTime:            r.prepTime,
		CookTime:            r.cookTime,
		Servings:            r.servings,
		Difficulty:          r.difficulty,
		Nutrition:           r.nutrition,
		ImageURL:            r.imageURL,
		Tags:                r.Tags(),
		Source:              r.source,
		CreatedAt:           r.createdAt,
		UpdatedAt:           r.updatedAt,
	}
}

// Reconstitute rebuilds a recipe from storage. No events are raised and
// no validation runs: stored data was validated on the way in.
func Reconstitute(s Snapshot) *Recipe {
	return &Recipe{
		id:                  s.ID,
		version:             s.Version,
		name:                s.Name,
		description:         s.Description,
		requiredIngredients: append([]RecipeIngredient(nil), s.RequiredIngredients...),
		optionalIngredients: append([]RecipeIngredient(nil), s.OptionalIngredients...),
		instructions:        append([]string(nil), s.Instructions...),
		prepTime:            s.PrepTime,
		cookTime:            s.CookTime,
		servings:            s.Servings,
		difficulty:          s.Difficulty,
		nutrition:           s.Nutrition,
		imageURL:            s.ImageURL,
		tags:                append([]string(nil), s.Tags...),
		source:              s.Source,
		createdAt:           s.CreatedAt,
		updatedAt:           s.UpdatedAt,
	}
}
