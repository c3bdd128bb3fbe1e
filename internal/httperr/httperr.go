package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code      string `json:"error_code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	c.JSON(http.StatusConflict, HTTPError{
		Code:      code,
		Message:   message,
		Retryable: true,
	})
}

func Unprocessable(c *gin.Context, code, message string) {
	Write(c, http.StatusUnprocessableEntity, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func TooManyRequests(c *gin.Context, code, message string) {
	Write(c, http.StatusTooManyRequests, code, message)
}

// FromError maps the business error taxonomy onto HTTP statuses. Anything
// that is not a BusinessError is reported as an opaque internal failure.
func FromError(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		Internal(c, "internal_error", "Unexpected failure.")
		return
	}

	switch be.Kind {
	case KindNotFound:
		NotFound(c, be.Code, "Resource not found.")
	case KindConflict:
		Conflict(c, be.Code, "Slot no longer available.")
	case KindValidation:
		Unprocessable(c, be.Code, "Invalid input.")
	default:
		Internal(c, be.Code, "Storage failure.")
	}
}
