package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/mealplan"
	"github.com/mealprep/pantrymatch/internal/ports/inbound"
	"go.uber.org/zap"
)

// MealPlanHandlers handles meal plan and nutrition requests
type MealPlanHandlers struct {
	mealPlanService inbound.MealPlanService
	location        *time.Location
	now             func() time.Time
	logger          *zap.Logger
}

// NewMealPlanHandlers creates meal plan handlers. Plain dates are read in loc.
func NewMealPlanHandlers(mealPlanService inbound.MealPlanService, loc *time.Location, logger *zap.Logger) *MealPlanHandlers {
	if loc == nil {
		loc = time.UTC
	}
	return &MealPlanHandlers{
		mealPlanService: mealPlanService,
		location:        loc,
		now:             time.Now,
		logger:          logger.Named("mealplan-handlers"),
	}
}

// Register mounts the meal plan and nutrition routes on rg
func (h *MealPlanHandlers) Register(rg *gin.RouterGroup) {
	plans := rg.Group("/meal-plans")
	plans.GET("", h.MealPlansForDate)
	plans.POST("", h.AddMealPlan)
	plans.DELETE("/:id", h.RemoveMealPlan)

	rg.GET("/nutrition/daily", h.DailyNutrition)
}

type addMealPlanRequest struct {
	RecipeID uuid.UUID         `json:"recipe_id"`
	Date     string            `json:"date"`
	MealType mealplan.MealType `json:"meal_type"`
	Servings int               `json:"servings"`
	Notes    string            `json:"notes"`
}

// AddMealPlan handles POST /api/v1/meal-plans
func (h *MealPlanHandlers) AddMealPlan(c *gin.Context) {
	var req addMealPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseDate(req.Date, h.location, h.now)
	if err != nil {
		fail(c, err)
		return
	}
	plan, err := h.mealPlanService.AddMealPlan(c.Request.Context(), inbound.AddMealPlanCommand{
		RecipeID: req.RecipeID,
		Date:     date,
		MealType: req.MealType,
		Servings: req.Servings,
		Notes:    req.Notes,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, plan, "Meal plan added successfully")
}

// RemoveMealPlan handles DELETE /api/v1/meal-plans/:id
func (h *MealPlanHandlers) RemoveMealPlan(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.mealPlanService.RemoveMealPlan(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Meal plan removed successfully")
}

// MealPlansForDate handles GET /api/v1/meal-plans?date=YYYY-MM-DD
func (h *MealPlanHandlers) MealPlansForDate(c *gin.Context) {
	date, err := parseDate(c.Query("date"), h.location, h.now)
	if err != nil {
		fail(c, err)
		return
	}
	plans, err := h.mealPlanService.MealPlansForDate(c.Request.Context(), date)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, plans, "Meal plans retrieved successfully")
}

// DailyNutrition handles GET /api/v1/nutrition/daily?date=YYYY-MM-DD
func (h *MealPlanHandlers) DailyNutrition(c *gin.Context) {
	date, err := parseDate(c.Query("date"), h.location, h.now)
	if err != nil {
		fail(c, err)
		return
	}
	daily, err := h.mealPlanService.DailyNutrition(c.Request.Context(), date)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, daily, "Daily nutrition computed successfully")
}
