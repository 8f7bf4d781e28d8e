package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	recipeapp "github.com/mealprep/pantrymatch/internal/application/recipe"
	"github.com/mealprep/pantrymatch/internal/application/mealplan"
	pantryapp "github.com/mealprep/pantrymatch/internal/application/pantry"
	"github.com/mealprep/pantrymatch/internal/infrastructure/ai/openai"
	"github.com/mealprep/pantrymatch/internal/infrastructure/config"
	"github.com/mealprep/pantrymatch/internal/infrastructure/http/handlers"
	"github.com/mealprep/pantrymatch/internal/infrastructure/http/server"
	"github.com/mealprep/pantrymatch/internal/infrastructure/messaging"
	"github.com/mealprep/pantrymatch/internal/infrastructure/monitoring"
	"github.com/mealprep/pantrymatch/internal/infrastructure/persistence/memory"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   struct {
		Code      string                 `json:"code"`
		RequestID string                 `json:"request_id"`
		Metadata  map[string]interface{} `json:"metadata"`
	} `json:"error"`
}

type APITestSuite struct {
	suite.Suite
	ctx    context.Context
	engine *gin.Engine
	recipe *recipeapp.RecipeService
	pantry *pantryapp.PantryService
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) SetupTest() {
	s.ctx = context.Background()
	log := zap.NewNop()
	cfg := &config.Config{
		App:      config.AppConfig{Name: "test", Version: "9.9.9"},
		Server:   config.ServerConfig{EnableCORS: true, AllowedOrigins: []string{"http://localhost:3000"}},
		Matching: config.MatchingConfig{DefaultLimit: 10},
	}

	recipes := memory.NewRecipeRepository()
	pantryRepo := memory.NewPantryRepository()
	bus := messaging.NewBus(log)
	metrics := monitoring.NewMetricsCollector(log)

	s.recipe = recipeapp.NewRecipeService(
		recipes, pantryRepo, memory.NewCacheRepository(),
		openai.NewGenerator(config.AIConfig{Provider: openai.ProviderMock}, metrics, log),
		bus, metrics, recipeapp.Config{DefaultLimit: 10, MatchTTL: time.Minute}, log,
	)
	s.pantry = pantryapp.NewPantryService(pantryRepo, nil, bus, log)
	plans := mealplan.NewMealPlanService(memory.NewMealPlanRepository(), recipes, time.UTC, log)

	_, err := s.recipe.SeedSampleCatalog(s.ctx)
	s.Require().NoError(err)

	s.engine, err = server.NewRouter(cfg, log, server.Routes{
		Recipes:   handlers.NewRecipeHandlers(s.recipe, log),
		Pantry:    handlers.NewPantryHandlers(s.pantry, log),
		MealPlans: handlers.NewMealPlanHandlers(plans, time.UTC, log),
	}, metrics, nil)
	s.Require().NoError(err)
}

func (s *APITestSuite) do(method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (s *APITestSuite) addPantry(names ...string) {
	for _, n := range names {
		rec, _ := s.do(http.MethodPost, "/api/v1/pantry", map[string]interface{}{"name": n})
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	}
}

func (s *APITestSuite) TestMatches() {
	s.Run("StoredPantry_ShouldRankStirFry", func() {
		s.SetupTest()
		// Arrange
		s.addPantry("Chicken Breast", "broccoli", "CARROT")

		// Act
		rec, env := s.do(http.MethodGet, "/api/v1/recipes/matches", nil)

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		s.True(env.Success)
		var matches []struct {
			Recipe          struct{ Name string } `json:"recipe"`
			MatchPercentage float64              `json:"match_percentage"`
		}
		s.Require().NoError(json.Unmarshal(env.Data, &matches))
		s.Require().Len(matches, 1)
		s.Equal("Quick Chicken Stir-Fry", matches[0].Recipe.Name)
		s.InDelta(60.0, matches[0].MatchPercentage, 1e-9)
	})

	s.Run("ExplicitPantry_ShouldIgnoreStore", func() {
		s.SetupTest()
		body := map[string]interface{}{"pantry": []string{"egg", "milk", "cheese", "spinach", "tomato", "onion"}}

		rec, env := s.do(http.MethodPost, "/api/v1/recipes/matches", body)

		s.Equal(http.StatusOK, rec.Code)
		var matches []struct {
			MatchPercentage float64 `json:"match_percentage"`
		}
		s.Require().NoError(json.Unmarshal(env.Data, &matches))
		s.Require().NotEmpty(matches)
		s.InDelta(100.0, matches[0].MatchPercentage, 1e-9)
	})

	s.Run("ZeroLimit_ShouldReturnEmptyList", func() {
		s.SetupTest()
		s.addPantry("Chicken Breast", "Broccoli", "Carrot")

		rec, env := s.do(http.MethodGet, "/api/v1/recipes/matches?limit=0", nil)

		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`[]`, string(env.Data))
	})

	s.Run("InvalidLimit_ShouldBeBadRequest", func() {
		for _, q := range []string{"-1", "ten"} {
			s.SetupTest()
			rec, env := s.do(http.MethodGet, "/api/v1/recipes/matches?limit="+q, nil)

			s.Equal(http.StatusBadRequest, rec.Code, q)
			s.Equal("VALIDATION_FAILED", env.Error.Code)
			s.NotEmpty(env.Error.RequestID)
		}
	})
}

func (s *APITestSuite) TestRecipes() {
	s.Run("CreateAndGet_ShouldRoundTrip", func() {
		s.SetupTest()
		body := map[string]interface{}{
			"name":                 "Toast",
			"required_ingredients": []map[string]interface{}{{"name": "Bread", "quantity": 2}},
			"servings":             1,
		}

		rec, env := s.do(http.MethodPost, "/api/v1/recipes", body)
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
		var created struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		s.Require().NoError(json.Unmarshal(env.Data, &created))

		rec, env = s.do(http.MethodGet, "/api/v1/recipes/"+created.ID, nil)
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(string(env.Data), `"name":"Toast"`)

		rec, _ = s.do(http.MethodGet, "/api/v1/recipes", nil)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("Errors_ShouldMapToStatus", func() {
		s.SetupTest()
		cases := []struct {
			method, path string
			body         interface{}
			status       int
			code         string
		}{
			{http.MethodGet, "/api/v1/recipes/not-a-uuid", nil, http.StatusBadRequest, "BAD_REQUEST"},
			{http.MethodGet, "/api/v1/recipes/00000000-0000-0000-0000-000000000001", nil, http.StatusNotFound, "RECIPE_NOT_FOUND"},
			{http.MethodDelete, "/api/v1/recipes/00000000-0000-0000-0000-000000000001", nil, http.StatusNotFound, "RECIPE_NOT_FOUND"},
			{http.MethodPost, "/api/v1/recipes", "{not json", http.StatusBadRequest, "BAD_REQUEST"},
			{http.MethodPost, "/api/v1/recipes", map[string]string{"name": "   "}, http.StatusBadRequest, "VALIDATION_FAILED"},
			{http.MethodPost, "/api/v1/recipes/generate", map[string]interface{}{"food_items": []string{"rock", "phone"}}, http.StatusBadRequest, "NO_FOOD_DETECTED"},
			{http.MethodGet, "/api/v1/foods/search?q=egg", nil, http.StatusServiceUnavailable, "PROVIDER_NOT_CONFIGURED"},
		}
		for _, tc := range cases {
			rec, env := s.do(tc.method, tc.path, tc.body)
			s.Equal(tc.status, rec.Code, "%s %s", tc.method, tc.path)
			s.Equal(tc.code, env.Error.Code, "%s %s", tc.method, tc.path)
		}
	})

	s.Run("Generate_WithSave_ShouldStoreRecipe", func() {
		s.SetupTest()
		body := map[string]interface{}{"food_items": []string{"chicken", "rock", "rice"}, "save": true}

		rec, env := s.do(http.MethodPost, "/api/v1/recipes/generate", body)

		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
		var generated struct {
			Name          string   `json:"name"`
			DetectedItems []string `json:"detected_items"`
			Saved         *struct {
				ID     string `json:"id"`
				Source string `json:"source"`
			} `json:"saved"`
		}
		s.Require().NoError(json.Unmarshal(env.Data, &generated))
		s.Equal("Chicken and Rice Special", generated.Name)
		s.Equal([]string{"Chicken", "Rice"}, generated.DetectedItems)
		s.Require().NotNil(generated.Saved)
		s.Equal("generated", generated.Saved.Source)
	})
}

func (s *APITestSuite) TestPantry() {
	s.Run("Duplicate_ShouldConflict", func() {
		s.SetupTest()
		s.addPantry("Garlic")

		rec, env := s.do(http.MethodPost, "/api/v1/pantry", map[string]string{"name": "  garlic "})

		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("DUPLICATE_INGREDIENT", env.Error.Code)
	})

	s.Run("UpdateAndRemove", func() {
		s.SetupTest()
		rec, env := s.do(http.MethodPost, "/api/v1/pantry", map[string]interface{}{"name": "Apple", "quantity": 3})
		s.Require().Equal(http.StatusCreated, rec.Code)
		var item struct {
			ID       string `json:"id"`
			Category string `json:"category"`
		}
		s.Require().NoError(json.Unmarshal(env.Data, &item))
		s.Equal("fruit", item.Category)

		rec, env = s.do(http.MethodPut, "/api/v1/pantry/"+item.ID, map[string]interface{}{"name": "Green Apple", "quantity": 1})
		s.Equal(http.StatusOK, rec.Code, rec.Body.String())
		s.Contains(string(env.Data), "Green Apple")

		rec, _ = s.do(http.MethodDelete, "/api/v1/pantry/"+item.ID, nil)
		s.Equal(http.StatusOK, rec.Code)

		rec, env = s.do(http.MethodGet, "/api/v1/pantry", nil)
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`[]`, string(env.Data))
	})
}

func (s *APITestSuite) TestMealPlans() {
	s.Run("DailyNutrition_ShouldSumPerServing", func() {
		s.SetupTest()
		catalog, err := s.recipe.ListRecipes(s.ctx)
		s.Require().NoError(err)
		var stirFryID string
		for _, r := range catalog {
			if r.Name == "Quick Chicken Stir-Fry" {
				stirFryID = r.ID.String()
			}
		}
		s.Require().NotEmpty(stirFryID)
		for _, meal := range []string{"lunch", "dinner"} {
			rec, _ := s.do(http.MethodPost, "/api/v1/meal-plans", map[string]interface{}{
				"recipe_id": stirFryID, "date": "2024-03-10", "meal_type": meal,
			})
			s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
		}

		rec, env := s.do(http.MethodGet, "/api/v1/nutrition/daily?date=2024-03-10", nil)

		s.Require().Equal(http.StatusOK, rec.Code)
		var daily struct {
			Date   string `json:"date"`
			Totals struct {
				Calories float64 `json:"calories"`
			} `json:"totals"`
			Meals []json.RawMessage `json:"meals"`
		}
		s.Require().NoError(json.Unmarshal(env.Data, &daily))
		s.Equal("2024-03-10", daily.Date)
		s.Len(daily.Meals, 2)
		s.InDelta(2*285.0/4, daily.Totals.Calories, 1e-9)

		rec, env = s.do(http.MethodGet, "/api/v1/meal-plans?date=2024-03-11", nil)
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`[]`, string(env.Data))
	})

	s.Run("BadDate_ShouldBeValidationError", func() {
		s.SetupTest()
		rec, env := s.do(http.MethodGet, "/api/v1/nutrition/daily?date=10/03/2024", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("VALIDATION_FAILED", env.Error.Code)
	})
}

func (s *APITestSuite) TestMiddleware() {
	s.Run("RequestIDAndCORS", func() {
		s.SetupTest()
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/recipes", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("X-Request-ID", "abc-123")
		rec := httptest.NewRecorder()

		s.engine.ServeHTTP(rec, req)

		s.Equal(http.StatusNoContent, rec.Code)
		s.Equal("abc-123", rec.Header().Get("X-Request-ID"))
		s.Equal("http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	s.Run("Health", func() {
		s.SetupTest()
		rec, env := s.do(http.MethodGet, "/health", nil)
		s.Equal(http.StatusOK, rec.Code)
		s.True(strings.Contains(string(env.Data), `"version":"9.9.9"`))
	})
}

func TestNewServer_Addr(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{Host: "127.0.0.1", Port: 8181}}
	srv := server.NewServer(cfg, http.NotFoundHandler(), zap.NewNop())
	if srv.Addr() != "127.0.0.1:8181" {
		t.Fatalf("unexpected addr %q", srv.Addr())
	}
}
