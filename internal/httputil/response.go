// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/keyosk/internal/errors"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HandleErrorGin maps domain errors to HTTP status codes and writes a JSON response.
// Internal errors are logged with their full chain but never exposed to the client.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode, errorResponse := mapError(err)

	if statusCode == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", `Bearer realm="keyosk"`)
	}

	if logger != nil {
		level := slog.LevelWarn
		if statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

// mapError translates an error chain into a status code and response body. The more
// specific storage errors are matched before the categories they wrap.
func mapError(err error) (int, ErrorResponse) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "The requested resource was not found",
		}

	case apperrors.Is(err, apperrors.ErrDuplicateName):
		return http.StatusConflict, ErrorResponse{
			Error:   "duplicate_name",
			Message: "A resource with the same name already exists",
		}

	case apperrors.Is(err, apperrors.ErrIntegrityViolation):
		return http.StatusConflict, ErrorResponse{
			Error:   "integrity_violation",
			Message: "The change violates a data integrity constraint",
		}

	case apperrors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: "A conflict occurred with existing data",
		}

	case apperrors.Is(err, apperrors.ErrInvalidBitIndex):
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "invalid_bit_index",
			Message: err.Error(),
		}

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "invalid_input",
			Message: err.Error(),
		}

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication is required",
		}

	case apperrors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "You don't have permission to access this resource",
		}

	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		}
	}
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation errors.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}
