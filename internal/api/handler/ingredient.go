package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nmarzin/gourmand/internal/logger"
	"github.com/nmarzin/gourmand/internal/service"
)

// IngredientHandler serves nutrient lookups by ingredient name.
type IngredientHandler struct {
	query *service.QueryService
}

// NewIngredientHandler creates an IngredientHandler.
func NewIngredientHandler(query *service.QueryService) *IngredientHandler {
	return &IngredientHandler{query: query}
}

// Nutrients translates the ingredient name and returns matching foods with
// their nutrient measurements.
func (h *IngredientHandler) Nutrients(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Param("name")

	foods, err := h.query.IngredientNutrients(ctx, name)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no nutrient data for this ingredient"})
			return
		}
		logger.CtxError(ctx, "Failed to look up nutrients for %q: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ingredient": name,
		"count":      len(foods),
		"foods":      foods,
	})
}
