package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sps-dashboard-api/internal/config"
)

// allowedImageExts restricts uploads to web-displayable images.
var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// UploadHandler stores header and product images on local disk.
type UploadHandler struct {
	cfg *config.UploadConfig
	log zerolog.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(cfg *config.UploadConfig, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		cfg: cfg,
		log: log.With().Str("handler", "upload").Logger(),
	}
}

// Upload handles POST /v1/uploads
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	if header.Size > h.cfg.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("file too large, max size is %d MB", h.cfg.MaxUploadSize/(1024*1024)),
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
		return
	}

	if err := os.MkdirAll(h.cfg.Dir, 0755); err != nil {
		h.log.Error().Err(err).Msg("Failed to create upload directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}

	filename := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(h.cfg.Dir, filename))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		h.log.Error().Err(err).Msg("Failed to copy file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}

	h.log.Info().
		Str("file", header.Filename).
		Str("stored_as", filename).
		Int64("size_bytes", header.Size).
		Msg("Image uploaded")

	c.JSON(http.StatusCreated, gin.H{"url": "/uploads/" + filename})
}
