package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dadasys/parkovaci-app/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it defaults to 500 Internal Server Error.
// The error is attached to the gin context so the request logger records the cause.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// BadRequest sends a 400 for input that failed binding. The binding error, if any, is reported as details.
func BadRequest(c *gin.Context, message string, err error) {
	body := ErrorResponse{Error: message}
	if err != nil {
		_ = c.Error(err)
		body.Details = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}
