// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response utilities shared by every endpoint: the
// structured error envelope, success writers, and the mapping from service
// errors to HTTP statuses.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "door not found"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HansOheneba/airban-api/internal/http/middleware"
	"github.com/HansOheneba/airban-api/internal/services"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"door not found"`
}

// MessageResponse acknowledges a mutation that returns no resource.
type MessageResponse struct {
	Message string `json:"message" example:"Door deleted successfully"`
}

// fail aborts the request with a structured error. Server errors (>=500) are
// logged with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get(middleware.HeaderRequestID),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail() for router-level handlers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// failService maps a service error onto the envelope. Unknown errors become a
// generic 500 and the cause is logged, never echoed.
func failService(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, verr.Message)
	case errors.Is(err, services.ErrDoorNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "door not found")
	case errors.Is(err, services.ErrOrderNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "order not found")
	case errors.Is(err, services.ErrEnquiryNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "enquiry not found")
	case errors.Is(err, services.ErrAlreadySubscribed):
		fail(c, http.StatusConflict, ErrCodeConflict, "email already subscribed")
	case errors.Is(err, services.ErrDatabaseBusy):
		c.Header("Retry-After", "1")
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "service busy, retry shortly")
	default:
		middleware.LoggerFrom(c).Error().Err(err).Msg("unhandled service error")
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}
