package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sps-dashboard-api/internal/models"
	"github.com/sps-dashboard-api/internal/service"
)

// ChatHandler handles the AI assistant endpoint
type ChatHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(services *service.Services, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		services: services,
		log:      log.With().Str("handler", "chat").Logger(),
	}
}

// Chat handles POST /v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	reply, err := h.services.Chat.Reply(c.Request.Context(), req.Message, req.History)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": reply})
}
