// Package openai drafts recipes through an OpenAI-compatible chat completion API
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mealprep/pantrymatch/internal/infrastructure/config"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Providers accepted in config.AIConfig.Provider
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderMock   = "mock"
)

// OllamaBaseURL is the OpenAI-compatible endpoint of a local Ollama
const OllamaBaseURL = "http://localhost:11434/v1"

const (
	serviceName = "openai"

	defaultName        = "Generated Recipe"
	defaultPrepTime    = 30
	defaultServings    = 4
	defaultQuantity    = "1"
	generatedScore     = 0.85
	fallbackScore      = 0.7
	noInstructionsText = "No instructions provided"
)

const systemPrompt = `You are a cooking assistant. Reply with a single JSON object and no other text.`

const userPrompt = `Create a detailed recipe that uses these food items: %s.
Provide:
1. Recipe name
2. Brief description
3. List of ingredients with quantities
4. Step-by-step cooking instructions
5. Estimated prep time in minutes
6. Number of servings
7. Cuisine type

Format your response as JSON with this structure:
{
    "name": "Recipe Name",
    "description": "Brief description",
    "ingredients": [{"name": "ingredient", "quantity": "amount", "unit": "unit"}],
    "instructions": ["Step 1", "Step 2"],
    "prepTime": 30,
    "servings": 4,
    "cuisineType": "cuisine"
}`

// Generator implements outbound.RecipeGenerator. Without a usable model it
// produces a deterministic recipe from the food items.
type Generator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	metrics     outbound.MetricsRecorder
	logger      *zap.Logger
}

// NewGenerator builds a generator for cfg. Provider mock, or openai
// without a key, selects the deterministic recipe.
func NewGenerator(cfg config.AIConfig, metrics outbound.MetricsRecorder, logger *zap.Logger) *Generator {
	logger = logger.Named("recipe-generator")
	if metrics == nil {
		metrics = outbound.NopMetrics{}
	}
	g := &Generator{
		model:       cfg.OpenAIModel,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.Timeout,
		metrics:     metrics,
		logger:      logger,
	}
	if g.model == "" {
		g.model = openai.GPT4
	}
	if g.timeout <= 0 {
		g.timeout = 60 * time.Second
	}

	key, baseURL := strings.TrimSpace(cfg.OpenAIKey), cfg.BaseURL
	switch cfg.Provider {
	case ProviderOllama:
		if key == "" {
			key = "ollama"
		}
		if baseURL == "" {
			baseURL = OllamaBaseURL
		}
	case ProviderOpenAI:
		if key == "" {
			logger.Warn("OpenAI key not configured, generating recipes without a model")
			return g
		}
	default:
		logger.Info("Using deterministic recipe generation")
		return g
	}

	clientCfg := openai.DefaultConfig(key)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	clientCfg.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	g.client = openai.NewClientWithConfig(clientCfg)

	logger.Info("Recipe generator initialized",
		zap.String("provider", cfg.Provider),
		zap.String("base_url", clientCfg.BaseURL),
		zap.String("model", g.model),
	)
	return g
}

var _ outbound.RecipeGenerator = (*Generator)(nil)

// GenerateRecipe asks the model for a recipe. Failures of the model call or
// of parsing its answer fall back to the deterministic recipe.
func (g *Generator) GenerateRecipe(ctx context.Context, foodItems []string) (*outbound.GeneratedRecipe, error) {
	if g.client == nil {
		return MockRecipe(foodItems), nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(userPrompt, strings.Join(foodItems, ", "))},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.Canceled) {
			return nil, ctxErr
		}
		g.metrics.RecordExternalRequest(serviceName, "error")
		g.logger.Error("Chat completion failed, using fallback recipe", zap.Error(err))
		return MockRecipe(foodItems), nil
	}
	g.metrics.RecordExternalRequest(serviceName, "ok")

	if len(resp.Choices) == 0 {
		g.logger.Error("Chat completion returned no choices, using fallback recipe")
		return MockRecipe(foodItems), nil
	}

	recipe, err := ParseRecipe(resp.Choices[0].Message.Content, foodItems)
	if err != nil {
		g.logger.Error("Failed to parse generated recipe, using fallback recipe",
			zap.String("content", truncate(resp.Choices[0].Message.Content, 200)),
			zap.Error(err),
		)
		return MockRecipe(foodItems), nil
	}

	g.logger.Info("Recipe generated",
		zap.String("name", recipe.Name),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", time.Since(start)),
	)
	return recipe, nil
}

type recipePayload struct {
	Name         *string             `json:"name"`
	Description  string              `json:"description"`
	Ingredients  []ingredientPayload `json:"ingredients"`
	Instructions []string            `json:"instructions"`
	PrepTime     *int                `json:"prepTime"`
	Servings     *int                `json:"servings"`
	CuisineType  string              `json:"cuisineType"`
}

type ingredientPayload struct {
	Name     string      `json:"name"`
	Quantity *flexString `json:"quantity"`
	Unit     string      `json:"unit"`
}

// flexString accepts a JSON string or number
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quantity must be a string or number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

// ParseRecipe decodes a model answer, tolerating a markdown code fence
// around the JSON. Missing fields get defaults.
func ParseRecipe(content string, foodItems []string) (*outbound.GeneratedRecipe, error) {
	var p recipePayload
	if err := json.Unmarshal([]byte(CleanJSONResponse(content)), &p); err != nil {
		return nil, fmt.Errorf("could not parse recipe JSON: %w", err)
	}

	out := &outbound.GeneratedRecipe{
		Name:          defaultName,
		Description:   p.Description,
		Ingredients:   make([]outbound.GeneratedIngredient, 0, len(p.Ingredients)),
		Instructions:  p.Instructions,
		PrepTime:      defaultPrepTime,
		Servings:      defaultServings,
		Confidence:    generatedScore,
		DetectedItems: append([]string(nil), foodItems...),
		Generated:     true,
	}
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.PrepTime != nil {
		out.PrepTime = *p.PrepTime
	}
	if p.Servings != nil {
		out.Servings = *p.Servings
	}
	if out.Instructions == nil {
		out.Instructions = []string{noInstructionsText}
	}
	for _, ing := range p.Ingredients {
		quantity := defaultQuantity
		if ing.Quantity != nil {
			quantity = string(*ing.Quantity)
		}
		out.Ingredients = append(out.Ingredients, outbound.GeneratedIngredient{
			Name:     ing.Name,
			Quantity: quantity,
			Unit:     ing.Unit,
		})
	}
	return out, nil
}

// CleanJSONResponse strips a ```json fence and surrounding whitespace
func CleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}

// MockRecipe builds the deterministic recipe for foodItems
func MockRecipe(foodItems []string) *outbound.GeneratedRecipe {
	ingredients := make([]outbound.GeneratedIngredient, 0, 5)
	for _, item := range first(foodItems, 5) {
		ingredients = append(ingredients, outbound.GeneratedIngredient{Name: item, Quantity: "1", Unit: "serving"})
	}

	return &outbound.GeneratedRecipe{
		Name:        mockName(foodItems),
		Description: "A delicious recipe featuring " + strings.Join(first(foodItems, 3), ", "),
		Ingredients: ingredients,
		Instructions: []string{
			"Prepare all ingredients and wash thoroughly",
			"Combine " + strings.Join(first(foodItems, 2), " and ") + " in a bowl",
			"Cook or mix according to your preference",
			"Season to taste and serve",
		},
		PrepTime:      defaultPrepTime,
		Servings:      defaultServings,
		Confidence:    fallbackScore,
		DetectedItems: append([]string{}, foodItems...),
	}
}

func mockName(items []string) string {
	switch len(items) {
	case 0:
		return "Mystery Dish"
	case 1:
		return items[0] + " Delight"
	default:
		return items[0] + " and " + items[1] + " Special"
	}
}

func first(items []string, n int) []string {
	if len(items) < n {
		return items
	}
	return items[:n]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..." + strconv.Itoa(len(s)-n) + " more bytes"
}
