package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sps-dashboard-api/internal/models"
	"github.com/sps-dashboard-api/internal/service"
)

// LineHandler handles line endpoints
type LineHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewLineHandler creates a new LineHandler
func NewLineHandler(services *service.Services, log zerolog.Logger) *LineHandler {
	return &LineHandler{
		services: services,
		log:      log.With().Str("handler", "line").Logger(),
	}
}

// List handles GET /v1/lines. Every authenticated user sees every line; the
// isAssigned flag tells the UI which ones the caller may edit.
func (h *LineHandler) List(c *gin.Context) {
	claims := getClaims(c)

	lines, err := h.services.Line.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if lines == nil {
		lines = []*models.LineWithAssignment{}
	}
	c.JSON(http.StatusOK, lines)
}

// Create handles POST /v1/lines
func (h *LineHandler) Create(c *gin.Context) {
	var req struct {
		Name           string  `json:"name" binding:"required"`
		Slug           string  `json:"slug" binding:"required"`
		HeaderImageURL *string `json:"headerImageUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and slug are required"})
		return
	}

	line, err := h.services.Line.Create(c.Request.Context(), req.Name, req.Slug, req.HeaderImageURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

// Update handles PUT /v1/lines/:id
func (h *LineHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Name           string  `json:"name" binding:"required"`
		Slug           string  `json:"slug" binding:"required"`
		HeaderImageURL *string `json:"headerImageUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and slug are required"})
		return
	}

	line := &models.Line{ID: id, Name: req.Name, Slug: req.Slug, HeaderImageURL: req.HeaderImageURL}
	if err := h.services.Line.Update(c.Request.Context(), line); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Delete handles DELETE /v1/lines/:id. Deletion cascades to the line's
// products and their year data; the UI warns before calling this.
func (h *LineHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.services.Line.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
