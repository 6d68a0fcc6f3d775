package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sps-dashboard-api/internal/apperr"
	"github.com/sps-dashboard-api/internal/models"
	"github.com/sps-dashboard-api/internal/service"
)

// BackupHandler handles snapshot export/restore and Excel import endpoints.
// All routes are admin-gated by the router.
type BackupHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(services *service.Services, log zerolog.Logger) *BackupHandler {
	return &BackupHandler{
		services: services,
		log:      log.With().Str("handler", "backup").Logger(),
	}
}

// Export handles GET /v1/backup/export
func (h *BackupHandler) Export(c *gin.Context) {
	claims := getClaims(c)

	backup, err := h.services.Backup.Export(c.Request.Context(), claims.Username)
	if err != nil {
		h.log.Error().Err(err).Msg("Backup export failed")
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("sps-dashboard-backup-%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.JSON(http.StatusOK, backup)
}

// Import handles POST /v1/backup/import (destructive full restore)
func (h *BackupHandler) Import(c *gin.Context) {
	var backup models.Backup
	if err := c.ShouldBindJSON(&backup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid backup format"})
		return
	}

	counts, err := h.services.Backup.Restore(c.Request.Context(), &backup)
	if err != nil {
		h.log.Error().Err(err).Msg("Backup restore failed")
		// The storage error message is surfaced so the operator can see
		// which row aborted the transaction.
		c.JSON(statusOf(err), gin.H{
			"error":   "Failed to import backup",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Database restored successfully",
		"importedCounts": counts,
	})
}

// ImportExcel handles POST /v1/backup/import-excel (multipart upload)
func (h *BackupHandler) ImportExcel(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	counts, err := h.services.Backup.ImportExcel(c.Request.Context(), file)
	if err != nil {
		h.log.Error().Err(err).Str("file", header.Filename).Msg("Excel import failed")
		if apperr.Is(err, apperr.Validation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(statusOf(err), gin.H{
			"error":   "Failed to import Excel",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Excel data imported successfully",
		"importedCounts": counts,
	})
}
