package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mealprep/pantrymatch/internal/infrastructure/config"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"github.com/mealprep/pantrymatch/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

func TestMockRecipe(t *testing.T) {
	t.Run("NoItems", func(t *testing.T) {
		r := MockRecipe(nil)
		assert.Equal(t, "Mystery Dish", r.Name)
		assert.Equal(t, "A delicious recipe featuring ", r.Description)
		assert.Empty(t, r.Ingredients)
		assert.Equal(t, "Combine  in a bowl", r.Instructions[1])
	})

	t.Run("OneItem", func(t *testing.T) {
		r := MockRecipe([]string{"Tomato"})
		assert.Equal(t, "Tomato Delight", r.Name)
		assert.Equal(t, "Combine Tomato in a bowl", r.Instructions[1])
	})

	t.Run("ManyItems", func(t *testing.T) {
		items := []string{"Chicken", "Rice", "Egg", "Cheese", "Bread", "Pasta"}
		r := MockRecipe(items)

		assert.Equal(t, "Chicken and Rice Special", r.Name)
		assert.Equal(t, "A delicious recipe featuring Chicken, Rice, Egg", r.Description)
		require.Len(t, r.Ingredients, 5)
		assert.Equal(t, outbound.GeneratedIngredient{Name: "Chicken", Quantity: "1", Unit: "serving"}, r.Ingredients[0])
		assert.Equal(t, []string{
			"Prepare all ingredients and wash thoroughly",
			"Combine Chicken and Rice in a bowl",
			"Cook or mix according to your preference",
			"Season to taste and serve",
		}, r.Instructions)
		assert.Equal(t, 30, r.PrepTime)
		assert.Equal(t, 4, r.Servings)
		assert.Equal(t, 0.7, r.Confidence)
		assert.Equal(t, items, r.DetectedItems)
		assert.False(t, r.Generated)
	})
}

func TestParseRecipe(t *testing.T) {
	t.Run("FencedJSON_ShouldParse", func(t *testing.T) {
		content := "```json\n{\"name\":\"Tomato Soup\",\"description\":\"Warm\",\"ingredients\":[{\"name\":\"Tomato\",\"quantity\":3,\"unit\":\"item\"},{\"name\":\"Salt\",\"unit\":\"pinch\"}],\"instructions\":[\"Simmer\"],\"prepTime\":20,\"servings\":2}\n```"

		r, err := ParseRecipe(content, []string{"Tomato"})

		require.NoError(t, err)
		assert.Equal(t, "Tomato Soup", r.Name)
		assert.Equal(t, 20, r.PrepTime)
		assert.Equal(t, 2, r.Servings)
		assert.Equal(t, "3", r.Ingredients[0].Quantity)
		assert.Equal(t, "1", r.Ingredients[1].Quantity)
		assert.Equal(t, 0.85, r.Confidence)
		assert.True(t, r.Generated)
	})

	t.Run("MissingFields_ShouldUseDefaults", func(t *testing.T) {
		r, err := ParseRecipe(`{}`, nil)

		require.NoError(t, err)
		assert.Equal(t, "Generated Recipe", r.Name)
		assert.Equal(t, 30, r.PrepTime)
		assert.Equal(t, 4, r.Servings)
		assert.Equal(t, []string{"No instructions provided"}, r.Instructions)
		assert.NotNil(t, r.Ingredients)
	})

	t.Run("NotJSON_ShouldFail", func(t *testing.T) {
		_, err := ParseRecipe("Here is your recipe!", nil)
		assert.Error(t, err)
	})
}

func TestCleanJSONResponse(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanJSONResponse("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSONResponse("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, CleanJSONResponse("  {\"a\":1} "))
}

type GeneratorTestSuite struct {
	suite.Suite
	server  *httptest.Server
	status  int
	content string
	metrics *testutils.MockMetrics
}

func (s *GeneratorTestSuite) SetupTest() {
	s.status = http.StatusOK
	s.content = `{"name":"Egg Fried Rice","instructions":["Fry"],"prepTime":15,"servings":2}`
	s.metrics = &testutils.MockMetrics{}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/v1/chat/completions", r.URL.Path)
		s.Equal("Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		s.NoError(json.NewDecoder(r.Body).Decode(&req))
		s.Equal("gpt-test", req.Model)
		if s.Len(req.Messages, 2) {
			s.Contains(req.Messages[1].Content, "Egg, Rice")
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.status)
		if s.status != http.StatusOK {
			fmt.Fprint(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
			return
		}
		payload, _ := json.Marshal(s.content)
		fmt.Fprintf(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":%s},"finish_reason":"stop"}],"usage":{"total_tokens":42}}`, payload)
	}))
	s.T().Cleanup(s.server.Close)
}

func (s *GeneratorTestSuite) generator() *Generator {
	return NewGenerator(config.AIConfig{
		Provider:    ProviderOpenAI,
		OpenAIKey:   "test-key",
		OpenAIModel: "gpt-test",
		BaseURL:     s.server.URL + "/v1",
	}, s.metrics, zap.NewNop())
}

func (s *GeneratorTestSuite) TestGenerateRecipe_ShouldUseModelAnswer() {
	r, err := s.generator().GenerateRecipe(context.Background(), []string{"Egg", "Rice"})

	s.Require().NoError(err)
	s.Equal("Egg Fried Rice", r.Name)
	s.Equal(15, r.PrepTime)
	s.Equal([]string{"Egg", "Rice"}, r.DetectedItems)
	s.True(r.Generated)
	s.Equal([]string{"openai:ok"}, s.metrics.External)
}

func (s *GeneratorTestSuite) TestGenerateRecipe_UnparsableAnswer_ShouldFallBack() {
	s.content = "I cannot help with that"

	r, err := s.generator().GenerateRecipe(context.Background(), []string{"Egg", "Rice"})

	s.Require().NoError(err)
	s.Equal("Egg and Rice Special", r.Name)
	s.False(r.Generated)
}

func (s *GeneratorTestSuite) TestGenerateRecipe_APIError_ShouldFallBack() {
	s.status = http.StatusInternalServerError

	r, err := s.generator().GenerateRecipe(context.Background(), []string{"Egg", "Rice"})

	s.Require().NoError(err)
	s.Equal("Egg and Rice Special", r.Name)
	s.Equal([]string{"openai:error"}, s.metrics.External)
}

func (s *GeneratorTestSuite) TestNoKey_ShouldNotCallModel() {
	for _, cfg := range []config.AIConfig{
		{Provider: ProviderMock, OpenAIKey: "test-key", BaseURL: s.server.URL + "/v1"},
		{Provider: ProviderOpenAI, BaseURL: s.server.URL + "/v1"},
	} {
		g := NewGenerator(cfg, s.metrics, zap.NewNop())

		r, err := g.GenerateRecipe(context.Background(), []string{"Fish"})

		s.Require().NoError(err)
		s.Equal("Fish Delight", r.Name)
	}
	s.Empty(s.metrics.External)
}

func TestGeneratorTestSuite(t *testing.T) {
	suite.Run(t, new(GeneratorTestSuite))
}

func TestNewGenerator_OllamaDefaults(t *testing.T) {
	g := NewGenerator(config.AIConfig{Provider: ProviderOllama}, nil, zap.NewNop())
	assert.NotNil(t, g.client)
	assert.Equal(t, "gpt-4", g.model)
}
