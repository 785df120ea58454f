package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrJourneyNotFound),
		errors.Is(err, apperrors.ErrStepNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrForbidden),
		errors.Is(err, apperrors.ErrCalculationForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrJourneyExpired):
		return http.StatusGone
	case errors.Is(err, apperrors.ErrJourneySubmitted),
		errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrMemberLocked):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrCalculationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError logs err and writes the mapped status. Internal errors are not echoed back.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": msg})
		return
	}
	logger.Warn(msg, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}
