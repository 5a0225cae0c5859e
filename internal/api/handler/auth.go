package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nmarzin/gourmand/internal/api/middleware"
	"github.com/nmarzin/gourmand/internal/auth"
	"github.com/nmarzin/gourmand/internal/logger"
)

// AuthHandler exposes the login flow and a token check endpoint.
type AuthHandler struct {
	manager *auth.Manager
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(manager *auth.Manager) *AuthHandler {
	return &AuthHandler{manager: manager}
}

// Login exchanges form credentials for a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	token, err := h.manager.Login(username, password)
	if err != nil {
		logger.CtxWarn(ctx, "Login rejected for user %q", username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	logger.CtxInfo(ctx, "User %q logged in", username)
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Protected confirms the caller holds a valid token.
func (h *AuthHandler) Protected(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "access granted",
		"user":    middleware.CurrentUser(c),
	})
}
