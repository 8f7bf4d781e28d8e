package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mealprep/pantrymatch/internal/ports/inbound"
	"go.uber.org/zap"
)

// PantryHandlers handles pantry and food lookup requests
type PantryHandlers struct {
	pantryService inbound.PantryService
	logger        *zap.Logger
}

// NewPantryHandlers creates a new pantry handlers instance
func NewPantryHandlers(pantryService inbound.PantryService, logger *zap.Logger) *PantryHandlers {
	return &PantryHandlers{
		pantryService: pantryService,
		logger:        logger.Named("pantry-handlers"),
	}
}

// Register mounts the pantry and food routes on rg
func (h *PantryHandlers) Register(rg *gin.RouterGroup) {
	pantry := rg.Group("/pantry")
	pantry.GET("", h.ListIngredients)
	pantry.POST("", h.AddIngredient)
	pantry.POST("/import", h.ImportFood)
	pantry.PUT("/:id", h.UpdateIngredient)
	pantry.DELETE("/:id", h.RemoveIngredient)

	rg.GET("/foods/search", h.SearchFoods)
}

// ListIngredients handles GET /api/v1/pantry
func (h *PantryHandlers) ListIngredients(c *gin.Context) {
	items, err := h.pantryService.ListIngredients(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, items, "Pantry retrieved successfully")
}

// AddIngredient handles POST /api/v1/pantry
func (h *PantryHandlers) AddIngredient(c *gin.Context) {
	var cmd inbound.AddIngredientCommand
	if !bindJSON(c, &cmd) {
		return
	}
	item, err := h.pantryService.AddIngredient(c.Request.Context(), cmd)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, item, "Ingredient added successfully")
}

// UpdateIngredient handles PUT /api/v1/pantry/:id
func (h *PantryHandlers) UpdateIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var cmd inbound.AddIngredientCommand
	if !bindJSON(c, &cmd) {
		return
	}
	item, err := h.pantryService.UpdateIngredient(c.Request.Context(), id, cmd)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, item, "Ingredient updated successfully")
}

// RemoveIngredient handles DELETE /api/v1/pantry/:id
func (h *PantryHandlers) RemoveIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.pantryService.RemoveIngredient(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Ingredient removed successfully")
}

// SearchFoods handles GET /api/v1/foods/search?q=
func (h *PantryHandlers) SearchFoods(c *gin.Context) {
	foods, err := h.pantryService.SearchFoods(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, foods, "Foods retrieved successfully")
}

// ImportFood handles POST /api/v1/pantry/import
func (h *PantryHandlers) ImportFood(c *gin.Context) {
	var cmd inbound.ImportFoodCommand
	if !bindJSON(c, &cmd) {
		return
	}
	item, err := h.pantryService.ImportFood(c.Request.Context(), cmd)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, item, "Food imported successfully")
}
