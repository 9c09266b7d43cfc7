package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"poirec/pkg/logger"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// TraceID returns the id set by the trace middleware, or "".
func TraceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: TraceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: TraceID(c),
	})
}

// StatusFor maps a service error to its HTTP status and user-facing message.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrPOINotFound):
		return http.StatusNotFound, "No recommendations available for this POI"
	case errors.Is(err, ErrIncompleteOrigin):
		return http.StatusBadRequest, "Origin needs both lat and lon"
	case errors.Is(err, ErrInvalidOrigin):
		return http.StatusBadRequest, "Origin must have latitude in [-90, 90] and longitude in [-180, 180]"
	case errors.Is(err, ErrInvalidPolicy):
		return http.StatusBadRequest, "Policy must be keyword or landmark"
	case errors.Is(err, ErrCatalogUnavailable):
		return http.StatusServiceUnavailable, "Reference data is not loaded"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func HandleServiceError(c *gin.Context, err error) {
	code, message := StatusFor(err)
	if code >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("trace_id", TraceID(c)).Msg("Unhandled service error")
	}
	RespondError(c, code, message)
}
