package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sps-dashboard-api/internal/models"
	"github.com/sps-dashboard-api/internal/service"
)

// YearDataHandler handles metric record endpoints
type YearDataHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewYearDataHandler creates a new YearDataHandler
func NewYearDataHandler(services *service.Services, log zerolog.Logger) *YearDataHandler {
	return &YearDataHandler{
		services: services,
		log:      log.With().Str("handler", "year_data").Logger(),
	}
}

// Upsert handles PUT /v1/year-data
func (h *YearDataHandler) Upsert(c *gin.Context) {
	claims := getClaims(c)

	var req struct {
		ProductID int64    `json:"productId" binding:"required"`
		Year      int      `json:"year" binding:"required"`
		DT        *float64 `json:"dt"`
		UT        *float64 `json:"ut"`
		NVA       *float64 `json:"nva"`
		KD        *float64 `json:"kd"`
		KE        *float64 `json:"ke"`
		KER       *float64 `json:"ker"`
		KSR       *float64 `json:"ksr"`
		OTR       *float64 `json:"otr"`
		TSR       *string  `json:"tsr"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId and year are required"})
		return
	}

	yd := &models.YearData{
		ProductID: req.ProductID,
		Year:      req.Year,
		DT:        req.DT,
		UT:        req.UT,
		NVA:       req.NVA,
		KD:        req.KD,
		KE:        req.KE,
		KER:       req.KER,
		KSR:       req.KSR,
		OTR:       req.OTR,
		TSR:       req.TSR,
	}

	saved, err := h.services.YearData.Upsert(c.Request.Context(), claims.UserID, claims.Role, yd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// Delete handles DELETE /v1/year-data
func (h *YearDataHandler) Delete(c *gin.Context) {
	claims := getClaims(c)

	var req struct {
		ProductID int64 `json:"productId" binding:"required"`
		Year      int   `json:"year" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId and year are required"})
		return
	}

	err := h.services.YearData.Delete(c.Request.Context(), claims.UserID, claims.Role, req.ProductID, req.Year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product removed from year"})
}
