package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsCollector handles Prometheus metrics collection. Each collector
// owns its registry so tests can build as many as they like.
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Business metrics
	matchRequestsTotal   *prometheus.CounterVec
	matchRequestDuration *prometheus.HistogramVec
	matchResults         prometheus.Histogram
	recipesCreatedTotal  *prometheus.CounterVec
	cacheOperations      *prometheus.CounterVec
	externalRequests     *prometheus.CounterVec
}

var _ outbound.MetricsRecorder = (*MetricsCollector)(nil)

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	m := &MetricsCollector{
		logger:   logger.Named("metrics"),
		registry: prometheus.NewRegistry(),

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),

		matchRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_match_requests_total",
				Help: "Total number of recipe match requests",
			},
			[]string{"source"},
		),
		matchRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recipe_match_duration_seconds",
				Help:    "Recipe match duration in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"source"},
		),
		matchResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "recipe_match_results",
				Help:    "Number of recipes returned per match request",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
			},
		),
		recipesCreatedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipes_created_total",
				Help: "Total number of recipes created",
			},
			[]string{"source"},
		),
		cacheOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_operations_total",
				Help: "Total number of cache operations",
			},
			[]string{"operation", "status"},
		),
		externalRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "external_requests_total",
				Help: "Total number of calls to third-party APIs",
			},
			[]string{"service", "status"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.matchRequestsTotal,
		m.matchRequestDuration,
		m.matchResults,
		m.recipesCreatedTotal,
		m.cacheOperations,
		m.externalRequests,
	)

	return m
}

// HTTPMiddleware creates a Gin middleware for HTTP metrics collection
func (m *MetricsCollector) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		statusCode := strconv.Itoa(c.Writer.Status())

		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, statusCode).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path, statusCode).
			Observe(time.Since(start).Seconds())
	}
}

func (m *MetricsCollector) RecordMatchRequest(source string, duration time.Duration, results int) {
	m.matchRequestsTotal.WithLabelValues(source).Inc()
	m.matchRequestDuration.WithLabelValues(source).Observe(duration.Seconds())
	m.matchResults.Observe(float64(results))
}

func (m *MetricsCollector) RecordCacheOperation(operation, status string) {
	m.cacheOperations.WithLabelValues(operation, status).Inc()
}

func (m *MetricsCollector) RecordRecipeCreated(source string) {
	m.recipesCreatedTotal.WithLabelValues(source).Inc()
}

func (m *MetricsCollector) RecordExternalRequest(service, status string) {
	m.externalRequests.WithLabelValues(service, status).Inc()
}

// Registry exposes the underlying registry
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog: zap.NewStdLog(m.logger),
	})
}
