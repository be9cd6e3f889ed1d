package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	pkgErrors "github.com/yungbote/majormatch-backend/internal/pkg/errors"
	"github.com/yungbote/majormatch-backend/internal/platform/ctxutil"
)

var (
	ErrUsernameTaken      = fmt.Errorf("%w: username taken", pkgErrors.ErrConflict)
	ErrStudentIDTaken     = fmt.Errorf("%w: student id taken", pkgErrors.ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", pkgErrors.ErrUnauthorized)
	ErrTokenExpired       = fmt.Errorf("%w: refresh token expired", pkgErrors.ErrUnauthorized)
	ErrMissingUser        = fmt.Errorf("%w: no authenticated user", pkgErrors.ErrUnauthorized)
	ErrInvalidImage       = fmt.Errorf("%w: invalid image data", pkgErrors.ErrInvalidArgument)
	ErrUnknownMajor       = fmt.Errorf("%w: major not in catalog", pkgErrors.ErrInvalidArgument)
	ErrMissingResponses   = fmt.Errorf("%w: responses required", pkgErrors.ErrInvalidArgument)
	ErrMissingScores      = fmt.Errorf("%w: riasec scores required", pkgErrors.ErrInvalidArgument)
)

// InputError is a rejected form. Fields maps each offending field to its message.
type InputError struct {
	Message string
	Fields  map[string]string
}

func (e *InputError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

func (e *InputError) Unwrap() error { return pkgErrors.ErrInvalidArgument }

func requireUser(rd *ctxutil.RequestData) (uuid.UUID, error) {
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, ErrMissingUser
	}
	return rd.UserID, nil
}
