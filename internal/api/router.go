package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nmarzin/gourmand/internal/api/handler"
	"github.com/nmarzin/gourmand/internal/api/middleware"
	"github.com/nmarzin/gourmand/internal/auth"
	"github.com/nmarzin/gourmand/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	queryService *service.QueryService,
	authManager *auth.Manager,
	mode string,
) *gin.Engine {
	// Set Gin mode
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// Create handlers
	authHandler := handler.NewAuthHandler(authManager)
	recipeHandler := handler.NewRecipeHandler(queryService)
	sandwichHandler := handler.NewSandwichHandler(queryService)
	ingredientHandler := handler.NewIngredientHandler(queryService)

	// Health check
	r.GET("/health", handler.Health)

	// Authentication
	r.POST("/login", authHandler.Login)

	requireAuth := middleware.RequireAuth(authManager)
	r.GET("/protected", requireAuth, authHandler.Protected)

	// API v1 routes, all behind the bearer token
	v1 := r.Group("/api/v1")
	v1.Use(requireAuth)
	{
		// Recipes
		v1.GET("/recettes/:category", recipeHandler.ByCategory)
		v1.GET("/recette/:id", recipeHandler.ByID)

		// Sandwiches
		v1.GET("/sandwiches", sandwichHandler.List)

		// Ingredients
		v1.GET("/ingredients/:name", ingredientHandler.Nutrients)
	}

	return r
}
