package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mchales/huistack-backend/internal/domain"
)

// MapError translates pgx failures into domain sentinels, prefixed with
// the entity and id for log context. Context cancellation and deadline
// errors keep their identity so callers can still match them.
func MapError(err error, entity string, id any) error {
	if err == nil {
		return nil
	}

	wrap := func(cause error) error {
		return fmt.Errorf("%s %v: %w", entity, id, cause)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return wrap(err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return wrap(domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return wrap(domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return wrap(domain.ErrNotFound)
		case "23514": // check_violation
			return wrap(domain.ErrValidation)
		}
	}

	return wrap(err)
}
