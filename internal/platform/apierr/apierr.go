package apierr

import (
	"errors"
	"fmt"
	"net/http"

	pkgErrors "github.com/yungbote/majormatch-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromSentinel maps the shared sentinels onto an HTTP status and code.
// Unknown errors map to 500.
func FromSentinel(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case errors.Is(err, pkgErrors.ErrInvalidArgument):
		return New(http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, pkgErrors.ErrUnauthorized):
		return New(http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, pkgErrors.ErrForbidden):
		return New(http.StatusForbidden, "forbidden", err)
	case errors.Is(err, pkgErrors.ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgErrors.ErrConflict):
		return New(http.StatusConflict, "conflict", err)
	default:
		return New(http.StatusInternalServerError, "internal", err)
	}
}
