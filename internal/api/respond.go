package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sps-dashboard-api/internal/apperr"
)

// statusOf maps the error taxonomy onto HTTP statuses.
func statusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error with its mapped status. Internal failures
// get a generic message; typed errors carry operator-facing messages.
func respondError(c *gin.Context, err error) {
	status := statusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	c.JSON(status, gin.H{"error": message})
}
