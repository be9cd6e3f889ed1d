// Package pgerr maps gorm and Postgres driver errors onto the shared sentinels.
package pgerr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	pkgErrors "github.com/yungbote/majormatch-backend/internal/pkg/errors"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// Classify wraps err with the sentinel matching its cause. Unrecognised
// errors are wrapped with op only.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, pkgErrors.ErrNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case codeUniqueViolation:
			return &ConflictError{Constraint: pgErr.ConstraintName, Err: err}
		case codeForeignKeyViolation, codeCheckViolation:
			return fmt.Errorf("%s: %w: %v", op, pkgErrors.ErrInvalidArgument, err)
		}
	}
	if msg := strings.ToLower(err.Error()); strings.Contains(msg, "duplicate key") {
		return &ConflictError{Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ConflictError is a unique violation. Constraint names the violated index
// when the driver reported it.
type ConflictError struct {
	Constraint string
	Err        error
}

func (e *ConflictError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("conflict on %s", e.Constraint)
	}
	return "conflict"
}

func (e *ConflictError) Unwrap() []error { return []error{pkgErrors.ErrConflict, e.Err} }

// ConflictOn reports whether err is a unique violation of constraint.
func ConflictOn(err error, constraint string) bool {
	var ce *ConflictError
	return errors.As(err, &ce) && ce.Constraint == constraint
}
