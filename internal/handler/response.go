package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/agendahub/agenda-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// statusFor maps the error taxonomy onto HTTP statuses.
func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.CodeValidation:
		return http.StatusBadRequest
	case apperrors.CodeConflict:
		return http.StatusConflict
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeDomainRule:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the typed failure back to the caller. Internal
// errors are masked; domain failures are surfaced verbatim.
func RespondError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)
	status := statusFor(code)

	message := err.Error()
	if code == apperrors.CodeInternal {
		message = "internal server error"
	}

	c.JSON(status, &Response{
		Status:  "error",
		Message: message,
		Code:    string(code),
	})
}
