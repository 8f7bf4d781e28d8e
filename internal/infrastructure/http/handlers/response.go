// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/pkg/errors"
)

const dateLayout = "2006-01-02"

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// fail hands err to the error middleware
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, errors.NewBadRequestError("Invalid request body").
			WithMetadata("reason", err.Error()).
			WithCause(err))
		return false
	}
	return true
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, errors.NewBadRequestError("Invalid ID").WithMetadata("id", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}

// parseLimit reads ?limit=N. Absent means nil so the service default applies.
func parseLimit(c *gin.Context) (*int, bool) {
	raw, ok := c.GetQuery("limit")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, true
	}
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || limit < 0 {
		fail(c, errors.NewValidationError("limit must be a non-negative integer").WithMetadata("limit", raw))
		return nil, false
	}
	return &limit, true
}

// parseDate accepts YYYY-MM-DD in loc or an RFC 3339 timestamp. An empty
// value means today in loc.
func parseDate(raw string, loc *time.Location, now func() time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now().In(loc), nil
	}
	if t, err := time.ParseInLocation(dateLayout, raw, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.NewValidationError("date must be YYYY-MM-DD or RFC 3339").
			WithMetadata("date", raw)
	}
	return t, nil
}

// Health handles GET /api/v1/health
func Health(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		respond(c, http.StatusOK, gin.H{
			"status":    "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		}, "Service is healthy")
	}
}
