package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopwire/content-engine/internal/database"
)

// Error codes returned to the storefront.
const (
	CodeInvalidParameters  = "INVALID_PARAMETERS"
	CodeServiceUnavailable = "SERVICE_TEMPORARILY_UNAVAILABLE"
	CodeDatabaseCorruption = "DATABASE_CORRUPTION"
	CodeDatabaseError      = "DATABASE_ERROR"
)

// retryAfterMillis tells the storefront how long to back off when the
// database is contended.
const retryAfterMillis = 1000

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: message,
		Code:  CodeInvalidParameters,
	})
}

// respondDatabaseError maps a classified storage error onto the HTTP error
// contract: contention is a 503 with a retry hint, corruption and everything
// else a 500 with a distinct code.
func respondDatabaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrBusy):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:      "Service temporarily unavailable, please retry",
			Code:       CodeServiceUnavailable,
			RetryAfter: retryAfterMillis,
		})
	case errors.Is(err, database.ErrCorrupt):
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Database corruption detected",
			Code:  CodeDatabaseCorruption,
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Database error",
			Code:  CodeDatabaseError,
		})
	}
}
