// Package nutritionix is a client for the Nutritionix v2 food database API
package nutritionix

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mealprep/pantrymatch/internal/infrastructure/config"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public v2 endpoint
	DefaultBaseURL = "https://trackapi.nutritionix.com/v2"

	placeholderAppID  = "YOUR_APP_ID"
	placeholderAppKey = "YOUR_APP_KEY"

	serviceName = "nutritionix"
)

// Errors returned by the client
var (
	ErrNotConfigured      = outbound.ErrProviderNotConfigured
	ErrInvalidCredentials = outbound.ErrInvalidCredentials
	ErrNoData             = outbound.ErrNoData
	ErrDecoding           = errors.New("failed to parse ingredient data")
)

// APIError is a non-200 response other than 401
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return "API Error: " + e.Message
}

// CommonFood is a generic (unbranded) search hit
type CommonFood struct {
	FoodName    string  `json:"food_name"`
	ServingUnit string  `json:"serving_unit"`
	ServingQty  float64 `json:"serving_qty"`
	Photo       Photo   `json:"photo"`
}

// BrandedFood is a branded search hit
type BrandedFood struct {
	FoodName    string  `json:"food_name"`
	BrandName   string  `json:"brand_name"`
	ServingUnit string  `json:"serving_unit"`
	ServingQty  float64 `json:"serving_qty"`
	Photo       Photo   `json:"photo"`
}

// Photo holds the image links of a food
type Photo struct {
	Thumb string `json:"thumb"`
}

// Food is a natural language nutrients result
type Food struct {
	FoodName           string  `json:"food_name"`
	ServingQty         float64 `json:"serving_qty"`
	ServingUnit        string  `json:"serving_unit"`
	ServingWeightGrams float64 `json:"serving_weight_grams"`
	Calories           float64 `json:"nf_calories"`
	TotalFat           float64 `json:"nf_total_fat"`
	Protein            float64 `json:"nf_protein"`
	TotalCarbohydrate  float64 `json:"nf_total_carbohydrate"`
	Photo              Photo   `json:"photo"`
}

type searchResponse struct {
	Common  []CommonFood  `json:"common"`
	Branded []BrandedFood `json:"branded"`
}

type nutrientsResponse struct {
	Foods []Food `json:"foods"`
}

// Client calls the Nutritionix API. It implements outbound.NutritionProvider.
type Client struct {
	baseURL string
	appID   string
	appKey  string
	http    *http.Client
	limiter *rate.Limiter
	metrics outbound.MetricsRecorder
	logger  *zap.Logger
}

// NewClient creates a client. Requests are rate limited and traced.
func NewClient(cfg config.NutritionixConfig, metrics outbound.MetricsRecorder, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	if metrics == nil {
		metrics = outbound.NopMetrics{}
	}

	return &Client{
		baseURL: baseURL,
		appID:   strings.TrimSpace(cfg.AppID),
		appKey:  strings.TrimSpace(cfg.AppKey),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: rate.NewLimiter(limit, burst),
		metrics: metrics,
		logger:  logger.Named("nutritionix-client"),
	}
}

var _ outbound.NutritionProvider = (*Client)(nil)

// Configured reports whether real API keys are set
func (c *Client) Configured() bool {
	return c.appID != "" && c.appKey != "" &&
		c.appID != placeholderAppID && c.appKey != placeholderAppKey
}

// SearchInstant returns the common foods matching query. An empty query
// returns an empty slice without calling the API.
func (c *Client) SearchInstant(ctx context.Context, query string) ([]CommonFood, error) {
	if query == "" {
		return []CommonFood{}, nil
	}
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	endpoint := c.baseURL + "/search/instant?query=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	var out searchResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if out.Common == nil {
		out.Common = []CommonFood{}
	}
	return out.Common, nil
}

// NaturalNutrients returns the first food parsed from a natural language query
func (c *Client) NaturalNutrients(ctx context.Context, query string) (*Food, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/natural/nutrients", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	var out nutrientsResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if len(out.Foods) == 0 {
		return nil, ErrNoData
	}
	return &out.Foods[0], nil
}

// SearchFoods implements outbound.NutritionProvider
func (c *Client) SearchFoods(ctx context.Context, query string) ([]outbound.FoodSummary, error) {
	foods, err := c.SearchInstant(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]outbound.FoodSummary, 0, len(foods))
	for _, f := range foods {
		out = append(out, outbound.FoodSummary{
			Name:        f.FoodName,
			ServingUnit: f.ServingUnit,
			ServingQty:  f.ServingQty,
			PhotoURL:    f.Photo.Thumb,
		})
	}
	return out, nil
}

// FoodNutrients implements outbound.NutritionProvider
func (c *Client) FoodNutrients(ctx context.Context, query string) (*outbound.FoodNutrients, error) {
	f, err := c.NaturalNutrients(ctx, query)
	if err != nil {
		return nil, err
	}
	return &outbound.FoodNutrients{
		Name:          f.FoodName,
		ServingQty:    f.ServingQty,
		ServingUnit:   f.ServingUnit,
		ServingGrams:  f.ServingWeightGrams,
		Calories:      f.Calories,
		TotalFat:      f.TotalFat,
		Protein:       f.Protein,
		Carbohydrates: f.TotalCarbohydrate,
		PhotoURL:      f.Photo.Thumb,
	}, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}

	req.Header.Set("x-app-id", c.appID)
	req.Header.Set("x-app-key", c.appKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordExternalRequest(serviceName, "error")
		c.logger.Error("Request failed", zap.String("path", req.URL.Path), zap.Error(err))
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordExternalRequest(serviceName, "error")
		return fmt.Errorf("failed to read response: %w", err)
	}
	c.metrics.RecordExternalRequest(serviceName, fmt.Sprint(resp.StatusCode))
	c.logger.Debug("Request completed",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidCredentials
	case resp.StatusCode != http.StatusOK:
		return newAPIError(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Warn("Undecodable response", zap.String("body", truncate(string(data), 200)), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrDecoding, err)
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return &APIError{StatusCode: status, Message: payload.Message}
	}
	return &APIError{
		StatusCode: status,
		Message:    fmt.Sprintf("API request failed with status code %d", status),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
