package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mealprep/pantrymatch/internal/infrastructure/monitoring"
	"github.com/mealprep/pantrymatch/pkg/healthcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouter(t *testing.T) {
	metrics := monitoring.NewMetricsCollector(zap.NewNop())
	metrics.RecordRecipeCreated("sample")

	health := healthcheck.New("1.2.3", zap.NewNop())
	health.SetCacheTTL(0)
	dbStatus := healthcheck.StatusHealthy
	health.Register("database", healthcheck.CheckerFunc(func(context.Context) healthcheck.Result {
		return healthcheck.Result{Status: dbStatus}
	}))

	router := NewRouter("1.2.3", metrics.Handler(), health)

	t.Run("Health_ShouldAlwaysBeOK", func(t *testing.T) {
		rec := get(t, router, "/health")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"version":"1.2.3"`)
	})

	t.Run("Ready_ShouldFollowChecks", func(t *testing.T) {
		rec := get(t, router, "/ready")
		assert.Equal(t, http.StatusOK, rec.Code)

		dbStatus = healthcheck.StatusUnhealthy
		rec = get(t, router, "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unhealthy", body["status"])
		dbStatus = healthcheck.StatusHealthy
	})

	t.Run("Metrics_ShouldExposeRegistry", func(t *testing.T) {
		rec := get(t, router, "/metrics")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `recipes_created_total{source="sample"} 1`)
	})

	t.Run("MetricsDisabled_ShouldNotRoute", func(t *testing.T) {
		rec := get(t, NewRouter("1.2.3", nil, health), "/metrics")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
