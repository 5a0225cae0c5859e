package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nmarzin/gourmand/internal/logger"
	"github.com/nmarzin/gourmand/internal/service"
)

// RecipeHandler serves recipe lookups.
type RecipeHandler struct {
	query *service.QueryService
}

// NewRecipeHandler creates a RecipeHandler.
func NewRecipeHandler(query *service.QueryService) *RecipeHandler {
	return &RecipeHandler{query: query}
}

// ByCategory lists the recipes of one category.
func (h *RecipeHandler) ByCategory(c *gin.Context) {
	ctx := c.Request.Context()
	category := c.Param("category")

	recipes, err := h.query.RecipesByCategory(ctx, category)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no recipes found for this category"})
			return
		}
		logger.CtxError(ctx, "Failed to list recipes for category %q: %v", category, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"count":    len(recipes),
		"recipes":  recipes,
	})
}

// ByID returns one recipe with its ingredient name list.
func (h *RecipeHandler) ByID(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	recipe, ingredients, err := h.query.RecipeWithIngredients(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		logger.CtxError(ctx, "Failed to load recipe %q: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe":      recipe,
		"ingredients": ingredients,
	})
}
