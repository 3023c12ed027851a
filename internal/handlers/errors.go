package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ShrishPande/tallyinsight/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// statusForError maps service errors to HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrUnreachable):
		return http.StatusServiceUnavailable
	case errors.Is(err, apperrors.ErrTransport), errors.Is(err, apperrors.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrSuperseded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes {"error": ...}. Internal errors hide their detail behind fallbackMsg.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallbackMsg})
		return
	}
	logger.Warn(fallbackMsg, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}
