package mealplan

import (
	"context"
	stderrors "errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/mealplan"
	"github.com/mealprep/pantrymatch/internal/domain/recipe"
	"github.com/mealprep/pantrymatch/internal/ports/inbound"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"github.com/mealprep/pantrymatch/pkg/errors"
	"github.com/mealprep/pantrymatch/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type MealPlanServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	plans    *testutils.MockMealPlanRepository
	recipes  *testutils.MockRecipeRepository
	location *time.Location
	stirFry  *recipe.Recipe
	service  *MealPlanService
}

func (suite *MealPlanServiceTestSuite) SetupTest() {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(suite.T(), err)

	suite.ctx = context.Background()
	suite.plans = new(testutils.MockMealPlanRepository)
	suite.recipes = new(testutils.MockRecipeRepository)
	suite.location = loc
	suite.stirFry = testutils.NewRecipeFactory(11).CreateStirFry()
	suite.service = NewMealPlanService(suite.plans, suite.recipes, loc, zap.NewNop())
}

func (suite *MealPlanServiceTestSuite) TestAddMealPlan() {
	suite.Run("KnownRecipe_ShouldSnapshotAndSave", func() {
		suite.SetupTest()
		// Arrange
		date := time.Date(2025, 11, 26, 18, 0, 0, 0, suite.location)
		suite.recipes.On("FindByID", mock.Anything, suite.stirFry.ID()).Return(suite.stirFry, nil)
		suite.plans.On("Save", mock.Anything, mock.AnythingOfType("*mealplan.MealPlan")).Return(nil)

		// Act
		got, err := suite.service.AddMealPlan(suite.ctx, inbound.AddMealPlanCommand{
			RecipeID: suite.stirFry.ID(),
			Date:     date,
			MealType: mealplan.MealTypeDinner,
		})

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "2025-11-26", got.Date)
		assert.Equal(suite.T(), "Quick Chicken Stir-Fry", got.RecipeName)
		assert.Equal(suite.T(), 1, got.Servings)
		assert.InDelta(suite.T(), 71.25, got.Nutrition.Calories, 1e-9)
	})

	suite.Run("UnknownRecipe_ShouldReturnRecipeNotFound", func() {
		suite.SetupTest()
		id := uuid.New()
		suite.recipes.On("FindByID", mock.Anything, id).Return(nil, outbound.ErrNotFound)

		_, err := suite.service.AddMealPlan(suite.ctx, inbound.AddMealPlanCommand{
			RecipeID: id, Date: time.Now(), MealType: mealplan.MealTypeLunch,
		})

		assert.True(suite.T(), errors.Is(err, errors.CodeRecipeNotFound))
		suite.plans.AssertNotCalled(suite.T(), "Save", mock.Anything, mock.Anything)
	})

	suite.Run("BadMealType_ShouldFailValidation", func() {
		suite.SetupTest()

		_, err := suite.service.AddMealPlan(suite.ctx, inbound.AddMealPlanCommand{
			RecipeID: suite.stirFry.ID(), Date: time.Now(), MealType: "brunch",
		})

		assert.True(suite.T(), errors.Is(err, errors.CodeValidationFailed))
		suite.recipes.AssertNotCalled(suite.T(), "FindByID", mock.Anything, mock.Anything)
	})
}

func (suite *MealPlanServiceTestSuite) TestRemoveMealPlan() {
	suite.Run("Missing_ShouldReturnNotFound", func() {
		suite.SetupTest()
		id := uuid.New()
		suite.plans.On("Delete", mock.Anything, id).Return(outbound.ErrNotFound)

		err := suite.service.RemoveMealPlan(suite.ctx, id)

		assert.True(suite.T(), errors.Is(err, errors.CodeMealPlanNotFound))
	})

	suite.Run("StorageFailure_ShouldReturnDatabaseError", func() {
		suite.SetupTest()
		id := uuid.New()
		suite.plans.On("Delete", mock.Anything, id).Return(stderrors.New("locked"))

		err := suite.service.RemoveMealPlan(suite.ctx, id)

		assert.True(suite.T(), errors.Is(err, errors.CodeDatabaseError))
	})
}

func (suite *MealPlanServiceTestSuite) TestDailyNutrition() {
	suite.Run("PlansOnDay_ShouldSumPerServingNutrition", func() {
		suite.SetupTest()
		// Arrange
		day := time.Date(2025, 11, 26, 9, 0, 0, 0, suite.location)
		lateDinner := time.Date(2025, 11, 27, 3, 0, 0, 0, time.UTC) // 22:00 in New York
		nextDay := time.Date(2025, 11, 27, 12, 0, 0, 0, suite.location)
		plans := []*mealplan.MealPlan{
			testutils.CreateMealPlan(suite.stirFry, day, mealplan.MealTypeLunch),
			testutils.CreateMealPlan(suite.stirFry, lateDinner, mealplan.MealTypeDinner),
			testutils.CreateMealPlan(suite.stirFry, nextDay, mealplan.MealTypeLunch),
		}
		start, end := mealplan.DayBounds(day, suite.location)
		suite.plans.On("FindBetween", mock.Anything, start, end).Return(plans, nil)

		// Act
		got, err := suite.service.DailyNutrition(suite.ctx, day)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "2025-11-26", got.Date)
		require.Len(suite.T(), got.Meals, 2)
		assert.InDelta(suite.T(), 142.5, got.Totals.Calories, 1e-9)
		assert.InDelta(suite.T(), 17.5, got.Totals.Protein, 1e-9)
	})

	suite.Run("NoPlans_ShouldReturnZeroTotals", func() {
		suite.SetupTest()
		suite.plans.On("FindBetween", mock.Anything, mock.Anything, mock.Anything).Return([]*mealplan.MealPlan{}, nil)

		got, err := suite.service.DailyNutrition(suite.ctx, time.Now())

		require.NoError(suite.T(), err)
		assert.Zero(suite.T(), got.Totals.Calories)
		assert.NotNil(suite.T(), got.Meals)
		assert.Empty(suite.T(), got.Meals)
	})

	suite.Run("ZeroDate_ShouldFailValidation", func() {
		suite.SetupTest()

		_, err := suite.service.MealPlansForDate(suite.ctx, time.Time{})

		assert.True(suite.T(), errors.Is(err, errors.CodeValidationFailed))
	})
}

func TestMealPlanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MealPlanServiceTestSuite))
}
