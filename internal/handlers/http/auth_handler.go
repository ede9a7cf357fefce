package http

import (
	"net/http"
	"strings"
	"time"

	"confbot/internal/core/domain"
	"confbot/internal/core/services"
	"confbot/pkg/errors"

	"github.com/gin-gonic/gin"
)

// AuthHandler issues session tokens for the chat gateway. The identity is
// assigned by the transport and trusted as-is; there is no credential check.
type AuthHandler struct {
	authService *services.AuthService
	tokenTTL    time.Duration
}

func NewAuthHandler(authService *services.AuthService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokenTTL:    tokenTTL,
	}
}

func (h *AuthHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/auth")
	{
		api.POST("/token", h.Token)
	}
}

type TokenRequest struct {
	Identity int64  `json:"identity" binding:"required"`
	Handle   string `json:"handle" binding:"max=50"`
}

func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}
	if req.Identity <= 0 {
		c.Error(errors.NewInvalidInputError("identity must be a positive number"))
		return
	}
	req.Handle = strings.TrimSpace(req.Handle)

	token, err := h.authService.GenerateToken(domain.Identity(req.Identity), req.Handle)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"identity":     req.Identity,
		"access_token": token,
		"expires_in":   int(h.tokenTTL / time.Second),
	})
}
