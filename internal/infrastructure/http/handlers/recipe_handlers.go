package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mealprep/pantrymatch/internal/ports/inbound"
	"go.uber.org/zap"
)

// RecipeHandlers handles recipe catalog requests
type RecipeHandlers struct {
	recipeService inbound.RecipeService
	logger        *zap.Logger
}

// NewRecipeHandlers creates a new recipe handlers instance
func NewRecipeHandlers(recipeService inbound.RecipeService, logger *zap.Logger) *RecipeHandlers {
	return &RecipeHandlers{
		recipeService: recipeService,
		logger:        logger.Named("recipe-handlers"),
	}
}

// Register mounts the recipe routes on rg
func (h *RecipeHandlers) Register(rg *gin.RouterGroup) {
	recipes := rg.Group("/recipes")
	recipes.GET("", h.ListRecipes)
	recipes.POST("", h.CreateRecipe)
	recipes.GET("/matches", h.MatchPantry)
	recipes.POST("/matches", h.MatchNames)
	recipes.POST("/generate", h.GenerateRecipe)
	recipes.GET("/:id", h.GetRecipe)
	recipes.PUT("/:id", h.UpdateRecipe)
	recipes.DELETE("/:id", h.DeleteRecipe)
}

// ListRecipes handles GET /api/v1/recipes
func (h *RecipeHandlers) ListRecipes(c *gin.Context) {
	recipes, err := h.recipeService.ListRecipes(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, recipes, "Recipes retrieved successfully")
}

// CreateRecipe handles POST /api/v1/recipes
func (h *RecipeHandlers) CreateRecipe(c *gin.Context) {
	var cmd inbound.CreateRecipeCommand
	if !bindJSON(c, &cmd) {
		return
	}
	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), cmd)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, recipe, "Recipe created successfully")
}

// GetRecipe handles GET /api/v1/recipes/:id
func (h *RecipeHandlers) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, recipe, "Recipe retrieved successfully")
}

// UpdateRecipe handles PUT /api/v1/recipes/:id
func (h *RecipeHandlers) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var cmd inbound.UpdateRecipeCommand
	if !bindJSON(c, &cmd) {
		return
	}
	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, cmd)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, recipe, "Recipe updated successfully")
}

// DeleteRecipe handles DELETE /api/v1/recipes/:id
func (h *RecipeHandlers) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Recipe deleted successfully")
}

// MatchPantry handles GET /api/v1/recipes/matches?limit=N against the stored pantry
func (h *RecipeHandlers) MatchPantry(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	h.match(c, inbound.FindMatchesQuery{Limit: limit})
}

type matchRequest struct {
	Pantry []string `json:"pantry"`
	Limit  *int     `json:"limit"`
}

// MatchNames handles POST /api/v1/recipes/matches with explicit pantry names.
// A limit in the query string wins over one in the body.
func (h *RecipeHandlers) MatchNames(c *gin.Context) {
	var req matchRequest
	if !bindJSON(c, &req) {
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	if limit == nil {
		limit = req.Limit
	}
	names := req.Pantry
	if names == nil {
		names = []string{}
	}
	h.match(c, inbound.FindMatchesQuery{Limit: limit, PantryNames: names})
}

func (h *RecipeHandlers) match(c *gin.Context, query inbound.FindMatchesQuery) {
	matches, err := h.recipeService.FindMatchingRecipes(c.Request.Context(), query)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, matches, "Matches computed successfully")
}

// GenerateRecipe handles POST /api/v1/recipes/generate
func (h *RecipeHandlers) GenerateRecipe(c *gin.Context) {
	var cmd inbound.GenerateRecipeCommand
	if !bindJSON(c, &cmd) {
		return
	}
	generated, err := h.recipeService.GenerateRecipe(c.Request.Context(), cmd)
	if err != nil {
		fail(c, err)
		return
	}
	status := http.StatusOK
	if generated.Saved != nil {
		status = http.StatusCreated
	}
	respond(c, status, generated, "Recipe generated successfully")
}
