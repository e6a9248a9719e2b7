package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/lumen/internal/domain"
)

// MapError converts pgx/pgconn errors to domain errors. subject names what
// was being read or written, e.g. "vocab entries spanish".
// context.DeadlineExceeded and context.Canceled are not mapped; they pass through.
func MapError(err error, subject string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", subject, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", subject, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w", subject, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w", subject, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s: %w", subject, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s: %w", subject, err)
}
