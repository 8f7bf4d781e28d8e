// Package healthcheck aggregates dependency probes into a readiness report
package healthcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) severity() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// Result is what a probe reports about one dependency
type Result struct {
	Status  Status
	Message string
	Details map[string]interface{}
}

// Checker probes one dependency
type Checker interface {
	Check(ctx context.Context) Result
}

// CheckerFunc adapts a function to Checker
type CheckerFunc func(ctx context.Context) Result

// Check calls f
func (f CheckerFunc) Check(ctx context.Context) Result { return f(ctx) }

// Check is one named entry of a Report
type Check struct {
	Name        string                 `json:"name"`
	Status      Status                 `json:"status"`
	Message     string                 `json:"message,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
	LastChecked time.Time              `json:"last_checked"`
	DurationMS  float64                `json:"duration_ms"`
}

// Report is the aggregated readiness of the service. Its status is the
// worst status of any check.
type Report struct {
	Status     Status    `json:"status"`
	Version    string    `json:"version"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMS float64   `json:"total_duration_ms"`
	Checks     []Check   `json:"checks"`
}

// HealthCheck holds the registered checkers and the last report
type HealthCheck struct {
	version string
	timeout time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	checkers map[string]Checker
	last     *Report
	cacheTTL time.Duration
}

// New creates a registry. Reports are reused for five seconds.
func New(version string, logger *zap.Logger) *HealthCheck {
	return &HealthCheck{
		version:  version,
		timeout:  5 * time.Second,
		logger:   logger.Named("healthcheck"),
		checkers: make(map[string]Checker),
		cacheTTL: 5 * time.Second,
	}
}

// Register adds or replaces the checker called name
func (h *HealthCheck) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
	h.last = nil
}

// SetCacheTTL changes how long a report is reused. Zero probes on every call.
func (h *HealthCheck) SetCacheTTL(ttl time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cacheTTL = ttl
	h.last = nil
}

// Check probes every dependency concurrently, or returns the previous
// report while it is fresh
func (h *HealthCheck) Check(ctx context.Context) Report {
	h.mu.Lock()
	if h.last != nil && time.Since(h.last.Timestamp) < h.cacheTTL {
		report := *h.last
		h.mu.Unlock()
		return report
	}
	names := make([]string, 0, len(h.checkers))
	for name := range h.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	checkers := make([]Checker, len(names))
	for i, name := range names {
		checkers[i] = h.checkers[name]
	}
	h.mu.Unlock()

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	checks := make([]Check, len(names))
	var wg sync.WaitGroup
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			checks[i] = probe(ctx, names[i], checkers[i])
		}(i)
	}
	wg.Wait()

	report := Report{
		Status:    StatusHealthy,
		Version:   h.version,
		Timestamp: start,
		Checks:    checks,
	}
	for _, c := range checks {
		if c.Status.severity() > report.Status.severity() {
			report.Status = c.Status
		}
		if c.Status == StatusUnhealthy {
			h.logger.Warn("Dependency unhealthy",
				zap.String("check", c.Name),
				zap.String("message", c.Message),
			)
		}
	}
	report.DurationMS = millis(time.Since(start))

	h.mu.Lock()
	h.last = &report
	h.mu.Unlock()
	return report
}

func probe(ctx context.Context, name string, checker Checker) (check Check) {
	start := time.Now()
	check = Check{Name: name, LastChecked: start}
	defer func() {
		if rec := recover(); rec != nil {
			check.Status = StatusUnhealthy
			check.Message = fmt.Sprintf("check panicked: %v", rec)
		}
		check.DurationMS = millis(time.Since(start))
	}()

	res := checker.Check(ctx)
	check.Status = res.Status
	check.Message = res.Message
	check.Details = res.Details
	if check.Status == "" {
		check.Status = StatusUnhealthy
	}
	return check
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// Handler serves the report; 503 when any check is unhealthy
func (h *HealthCheck) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := h.Check(r.Context())

		code := http.StatusOK
		if report.Status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(report); err != nil {
			h.logger.Error("Failed to encode health report", zap.Error(err))
		}
	}
}
