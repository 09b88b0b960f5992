package httperror

import (
	"fmt"
	"net/http"
)

// Error is the error envelope returned by handlers. Code is a stable dotted
// identifier clients can branch on, e.g. "comments.update.forbidden".
type Error struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *Error) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(status int, code, message string, details any) *Error {
	return &Error{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func BadRequest(code, message string, details any) *Error {
	return New(http.StatusBadRequest, code, message, details)
}

func Unauthorized(code, message string, details any) *Error {
	return New(http.StatusUnauthorized, code, message, details)
}

func Forbidden(code, message string, details any) *Error {
	return New(http.StatusForbidden, code, message, details)
}

func NotFound(code, message string, details any) *Error {
	return New(http.StatusNotFound, code, message, details)
}

func Conflict(code, message string, details any) *Error {
	return New(http.StatusConflict, code, message, details)
}

func InternalServerError(code, message string, details any) *Error {
	return New(http.StatusInternalServerError, code, message, details)
}

// NoContent is returned as an error by handlers whose success has no body.
// writeError sends the bare status for anything below 400.
func NoContent(code, message string, details any) *Error {
	return New(http.StatusNoContent, code, message, details)
}

func (e *Error) IsSuccess() bool {
	return e.Status < http.StatusBadRequest
}
