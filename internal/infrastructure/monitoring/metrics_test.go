package monitoring

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMetricsCollector_BusinessMetrics(t *testing.T) {
	m := NewMetricsCollector(zap.NewNop())

	m.RecordMatchRequest("pantry", 3*time.Millisecond, 2)
	m.RecordMatchRequest("pantry", time.Millisecond, 0)
	m.RecordMatchRequest("request", time.Millisecond, 1)
	m.RecordCacheOperation("match", "hit")
	m.RecordRecipeCreated("ai")
	m.RecordExternalRequest("nutritionix", "200")
	m.RecordExternalRequest("nutritionix", "200")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.matchRequestsTotal.WithLabelValues("pantry")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.matchRequestsTotal.WithLabelValues("request")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheOperations.WithLabelValues("match", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recipesCreatedTotal.WithLabelValues("ai")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.externalRequests.WithLabelValues("nutritionix", "200")))
}

func TestMetricsCollector_HTTPMiddlewareAndHandler(t *testing.T) {
	m := NewMetricsCollector(zap.NewNop())
	router := gin.New()
	router.Use(m.HTTPMiddleware())
	router.GET("/api/v1/recipes/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for i := 0; i < 3; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/recipes/abc", nil))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/recipes/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")))

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/api/v1/recipes/:id",status_code="404"} 3`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNewMetricsCollector_IndependentRegistries(t *testing.T) {
	a := NewMetricsCollector(zap.NewNop())
	b := NewMetricsCollector(zap.NewNop())
	a.RecordRecipeCreated("manual")

	assert.Equal(t, 0.0, testutil.ToFloat64(b.recipesCreatedTotal.WithLabelValues("manual")))
}

func TestTracingProvider_Disabled(t *testing.T) {
	tp, err := NewTracingProvider(TracingConfig{ServiceName: "test"}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.Enabled())

	var sawSpan bool
	router := gin.New()
	router.Use(tp.HTTPMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		sawSpan = trace.SpanFromContext(c.Request.Context()) != nil
		c.Status(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sawSpan)
	assert.NoError(t, tp.Shutdown(context.Background()))
}
