package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nmarzin/gourmand/internal/logger"
	"github.com/nmarzin/gourmand/internal/service"
)

// SandwichHandler serves the sandwich listing.
type SandwichHandler struct {
	query *service.QueryService
}

// NewSandwichHandler creates a SandwichHandler.
func NewSandwichHandler(query *service.QueryService) *SandwichHandler {
	return &SandwichHandler{query: query}
}

// List returns every sandwich with its ingredient names.
func (h *SandwichHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	sandwiches, err := h.query.Sandwiches(ctx)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no sandwiches found"})
			return
		}
		logger.CtxError(ctx, "Failed to list sandwiches: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(sandwiches),
		"sandwiches": sandwiches,
	})
}
