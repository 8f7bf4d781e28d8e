package recipe

import (
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RecipeTestSuite provides a test suite for the Recipe aggregate
type RecipeTestSuite struct {
	suite.Suite
	faker *gofakeit.Faker
}

func (suite *RecipeTestSuite) SetupSuite() {
	suite.faker = gofakeit.New(42)
}

func (suite *RecipeTestSuite) TestRecipeCreation() {
	suite.Run("ValidRecipe_ShouldCreateSuccessfully", func() {
		// Arrange
		name := "  Spaghetti Carbonara "
		description := suite.faker.Sentence(12)

		// Act
		recipe, err := NewRecipe(name, description)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "Spaghetti Carbonara", recipe.Name())
		assert.NotEqual(suite.T(), uuid.Nil, recipe.ID())
		assert.Equal(suite.T(), int64(1), recipe.Version())
		assert.Equal(suite.T(), 1, recipe.Servings())
		assert.Equal(suite.T(), DifficultyLevelEasy, recipe.Difficulty())
		assert.Equal(suite.T(), SourceManual, recipe.Source())

		events := recipe.Events()
		require.Len(suite.T(), events, 1)
		created, ok := events[0].(RecipeCreatedEvent)
		assert.True(suite.T(), ok, "Should emit RecipeCreatedEvent")
		assert.Equal(suite.T(), recipe.ID(), created.RecipeID)
	})

	suite.Run("BlankName_ShouldReturnError", func() {
		recipe, err := NewRecipe("   ", "desc")

		assert.Nil(suite.T(), recipe)
		assert.ErrorIs(suite.T(), err, ErrNameRequired)
	})

	suite.Run("NameTooLong_ShouldReturnError", func() {
		_, err := NewRecipe(strings.Repeat("a", 201), "")

		assert.ErrorIs(suite.T(), err, ErrNameTooLong)
	})

	suite.Run("DescriptionTooLong_ShouldReturnError", func() {
		_, err := NewRecipe("Soup", strings.Repeat("x", 2001))

		assert.ErrorIs(suite.T(), err, ErrDescriptionTooLong)
	})
}

func (suite *RecipeTestSuite) TestRecipeMutation() {
	suite.Run("SetIngredients_ShouldDefaultUnits", func() {
		// Arrange
		recipe, _ := NewRecipe("Toast", "")

		// Act
		err := recipe.SetIngredients(
			[]RecipeIngredient{{Name: " Bread ", Quantity: 2}},
			[]RecipeIngredient{{Name: "Butter", Quantity: 1, Unit: shared.UnitTablespoon}},
		)

		// Assert
		require.NoError(suite.T(), err)
		req := recipe.RequiredIngredients()
		require.Len(suite.T(), req, 1)
		assert.Equal(suite.T(), "Bread", req[0].Name)
		assert.Equal(suite.T(), shared.UnitItem, req[0].Unit)
		assert.Equal(suite.T(), shared.UnitTablespoon, recipe.OptionalIngredients()[0].Unit)
	})

	suite.Run("InvalidIngredient_ShouldLeaveRecipeUnchanged", func() {
		recipe, _ := NewRecipe("Toast", "")
		require.NoError(suite.T(), recipe.SetIngredients([]RecipeIngredient{{Name: "Bread", Quantity: 1}}, nil))

		err := recipe.SetIngredients([]RecipeIngredient{{Name: "", Quantity: 1}}, nil)
		assert.ErrorIs(suite.T(), err, ErrInvalidIngredient)

		err = recipe.SetIngredients([]RecipeIngredient{{Name: "Egg", Quantity: -1}}, nil)
		assert.ErrorIs(suite.T(), err, ErrInvalidIngredient)

		err = recipe.SetIngredients(nil, []RecipeIngredient{{Name: "Egg", Quantity: 1, Unit: "pinch"}})
		assert.ErrorIs(suite.T(), err, ErrInvalidUnit)

		assert.Len(suite.T(), recipe.RequiredIngredients(), 1)
	})

	suite.Run("Accessors_ShouldReturnCopies", func() {
		recipe, _ := NewRecipe("Toast", "")
		require.NoError(suite.T(), recipe.SetIngredients([]RecipeIngredient{{Name: "Bread", Quantity: 1}}, nil))

		req := recipe.RequiredIngredients()
		req[0].Name = "Changed"

		assert.Equal(suite.T(), "Bread", recipe.RequiredIngredients()[0].Name)
	})

	suite.Run("InvalidValues_ShouldReturnErrors", func() {
		recipe, _ := NewRecipe("Toast", "")

		assert.ErrorIs(suite.T(), recipe.SetServings(0), ErrInvalidServings)
		assert.ErrorIs(suite.T(), recipe.SetTiming(-1, 5), ErrInvalidTiming)
		assert.ErrorIs(suite.T(), recipe.SetDifficulty("expert"), ErrInvalidDifficulty)
		assert.ErrorIs(suite.T(), recipe.SetNutrition(NutritionInfo{Sodium: -1}), ErrInvalidNutrition)
		assert.ErrorIs(suite.T(), recipe.Rename(""), ErrNameRequired)
	})

	suite.Run("SetTagsAndInstructions_ShouldDropBlanks", func() {
		recipe, _ := NewRecipe("Toast", "")

		recipe.SetTags([]string{"Quick", " quick", "", "Breakfast"})
		recipe.SetInstructions([]string{"Toast bread", "  ", "Spread butter"})

		assert.Equal(suite.T(), []string{"quick", "breakfast"}, recipe.Tags())
		assert.Equal(suite.T(), []string{"Toast bread", "Spread butter"}, recipe.Instructions())
	})

	suite.Run("Changes_ShouldRaiseOneUpdateEventPerBatch", func() {
		// Arrange
		recipe := Reconstitute(Snapshot{ID: uuid.New(), Version: 3, Name: "Toast", Servings: 1, Difficulty: DifficultyLevelEasy})
		before := recipe.UpdatedAt()

		// Act
		require.NoError(suite.T(), recipe.Rename("French Toast"))
		require.NoError(suite.T(), recipe.SetServings(2))
		events := recipe.Events()

		// Assert
		require.Len(suite.T(), events, 1)
		updated, ok := events[0].(RecipeUpdatedEvent)
		require.True(suite.T(), ok)
		assert.Equal(suite.T(), int64(4), updated.Version)
		assert.Equal(suite.T(), int64(4), recipe.Version())
		assert.True(suite.T(), recipe.UpdatedAt().After(before))

		require.NoError(suite.T(), recipe.SetServings(3))
		assert.Len(suite.T(), recipe.Events(), 1)
		assert.Equal(suite.T(), int64(5), recipe.Version())
	})

	suite.Run("MarkDeleted_ShouldRaiseDeletedEvent", func() {
		recipe := Reconstitute(Snapshot{ID: uuid.New(), Name: "Toast"})

		recipe.MarkDeleted()

		events := recipe.Events()
		require.Len(suite.T(), events, 1)
		assert.Equal(suite.T(), "recipe.deleted", events[0].EventName())
	})
}

func (suite *RecipeTestSuite) TestSnapshotRoundTrip() {
	// Arrange
	original := SampleCatalog()[0]

	// Act
	restored := Reconstitute(original.Snapshot())

	// Assert
	assert.Equal(suite.T(), original.Snapshot(), restored.Snapshot())
	assert.Empty(suite.T(), restored.Events())
}

func TestRecipeTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeTestSuite))
}

func TestNutritionInfo(t *testing.T) {
	n := NutritionInfo{Calories: 400, Protein: 20, Carbohydrates: 40, Fat: 8, Fiber: 4, Sugar: 2, Sodium: 600, Cholesterol: 100}

	per := n.PerServing(4)
	assert.Equal(t, 100.0, per.Calories)
	assert.Equal(t, 150.0, per.Sodium)
	assert.Equal(t, n, n.PerServing(0))

	sum := per.Add(per)
	assert.Equal(t, 200.0, sum.Calories)
	assert.Equal(t, 50.0, sum.Cholesterol)
}

func TestSampleCatalog(t *testing.T) {
	catalog := SampleCatalog()
	require.Len(t, catalog, 3)

	stirFry := catalog[0]
	assert.Equal(t, "Quick Chicken Stir-Fry", stirFry.Name())
	assert.Len(t, stirFry.RequiredIngredients(), 4)
	assert.Len(t, stirFry.OptionalIngredients(), 2)
	assert.Len(t, stirFry.Instructions(), 7)
	assert.Equal(t, 25, stirFry.TotalTime())
	assert.Equal(t, SourceSample, stirFry.Source())
	assert.Equal(t, 285.0, stirFry.Nutrition().Calories)

	assert.Equal(t, "Simple Pasta with Tomato Sauce", catalog[1].Name())
	assert.Equal(t, "Breakfast Scramble", catalog[2].Name())
	assert.Equal(t, 3, catalog[2].Servings())

	assert.NotEqual(t, catalog[0].ID(), SampleCatalog()[0].ID())
}

func TestFilterFoodItems(t *testing.T) {
	assert.True(t, IsFoodRelated("Granny_Smith_APPLE_pie"))
	assert.False(t, IsFoodRelated("laptop"))

	got := FilterFoodItems([]string{"cheese_pizza", "laptop", "fried_chicken", "dog"})
	assert.Equal(t, []string{"Cheese Pizza", "Fried Chicken"}, got)

	many := make([]string, 15)
	for i := range many {
		many[i] = "soup"
	}
	assert.Len(t, FilterFoodItems(many), MaxDetectedItems)
	assert.Empty(t, FilterFoodItems(nil))
}
