package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sps-dashboard-api/internal/models"
	"github.com/sps-dashboard-api/internal/service"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(services *service.Services, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		services: services,
		log:      log.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /v1/products?lineId=N
func (h *ProductHandler) List(c *gin.Context) {
	var lineID *int64
	if raw := c.Query("lineId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lineId"})
			return
		}
		lineID = &id
	}

	products, err := h.services.Product.List(c.Request.Context(), lineID)
	if err != nil {
		respondError(c, err)
		return
	}
	if products == nil {
		products = []*models.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// Get handles GET /v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, err := h.services.Product.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Create handles POST /v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	claims := getClaims(c)

	var req struct {
		Name   string  `json:"name" binding:"required"`
		Image  *string `json:"image"`
		LineID *int64  `json:"lineId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and lineId are required"})
		return
	}

	product := &models.Product{Name: req.Name, Image: req.Image, LineID: req.LineID}
	err := h.services.Product.Create(c.Request.Context(), claims.UserID, claims.Role, product)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// Update handles PUT /v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	claims := getClaims(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Name   string  `json:"name" binding:"required"`
		Image  *string `json:"image"`
		LineID *int64  `json:"lineId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	product := &models.Product{ID: id, Name: req.Name, Image: req.Image, LineID: req.LineID}
	err := h.services.Product.Update(c.Request.Context(), claims.UserID, claims.Role, product)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Delete handles DELETE /v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	claims := getClaims(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := h.services.Product.Delete(c.Request.Context(), claims.UserID, claims.Role, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
