package handlers

import (
	"errors"
	"net/http"

	"wine-tier-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func statusForError(err error) int {
	switch {
	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyBatch),
		errors.Is(err, domain.ErrUnsupportedFile):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound

	// Service unavailable errors
	case errors.Is(err, domain.ErrHistoryDisabled):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

func mapDomainError(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
