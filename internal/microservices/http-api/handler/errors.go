package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"quotehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "An unexpected error occurred."

// StatusFor maps a service failure to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAuthRequired),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrQuoteNotFound), errors.Is(err, service.ErrNoQuotes):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmailInUse):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": message}. Unexpected failures are logged and
// replaced by a generic message.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		logger.ErrorContext(c.Request.Context(), "request failed",
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.Any("error", err))
		c.JSON(status, gin.H{"error": internalErrorMessage})
		return
	}

	msg := err.Error()
	if status == http.StatusBadRequest {
		msg = service.ValidationMessage(err)
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
