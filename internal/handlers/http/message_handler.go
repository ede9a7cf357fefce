package http

import (
	"net/http"
	"strings"

	"confbot/internal/core/domain"
	"confbot/internal/core/ports"
	"confbot/internal/infrastructure/middleware"
	"confbot/pkg/errors"
	"confbot/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxMessageLength = 4096

// MessageHandler accepts one chat message per request and returns the bot's
// reply. The identity comes from the session token, never from the body.
type MessageHandler struct {
	router ports.CommandRouter
}

func NewMessageHandler(router ports.CommandRouter) *MessageHandler {
	return &MessageHandler{router: router}
}

func (h *MessageHandler) SetupRoutes(engine *gin.Engine, authMiddleware gin.HandlerFunc, rateLimit gin.HandlerFunc) {
	api := engine.Group("/api/v1")
	api.Use(authMiddleware, rateLimit)
	{
		api.POST("/messages", h.PostMessage)
	}
}

type MessageRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *MessageHandler) PostMessage(c *gin.Context) {
	identityVal, exists := c.Get(middleware.ContextIdentityKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	identity, ok := identityVal.(domain.Identity)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid identity context"})
		return
	}

	var req MessageRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		c.Error(errors.NewInvalidInputError("text must not be empty"))
		return
	}
	if len(req.Text) > maxMessageLength {
		c.Error(errors.NewInvalidInputError("text is too long"))
		return
	}

	ctx := logger.WithRequestID(c.Request.Context(), uuid.New().String())
	reply, err := h.router.Route(ctx, identity, req.Text)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
