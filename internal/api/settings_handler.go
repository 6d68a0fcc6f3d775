package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sps-dashboard-api/internal/service"
)

// SettingsHandler handles the singleton settings endpoints
type SettingsHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(services *service.Services, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		services: services,
		log:      log.With().Str("handler", "settings").Logger(),
	}
}

// Get handles GET /v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.services.Settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Update handles PUT /v1/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req struct {
		HeaderImageURL *string `json:"headerImageUrl"`
		ActiveYears    []int   `json:"activeYears"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	settings, err := h.services.Settings.Update(c.Request.Context(), req.HeaderImageURL, req.ActiveYears)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
