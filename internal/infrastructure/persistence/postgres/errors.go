package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
)

// SQLSTATE codes mapped onto the error taxonomy.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// translateError maps driver errors onto apperr kinds; everything else is
// wrapped with the formatted context.
func translateError(err error, format string, args ...any) error {
	what := fmt.Sprintf(format, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("%s not found", what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Conflict("%s: already exists", what)
		case pgForeignKeyViolation:
			return apperr.NotFound("%s: referenced row does not exist (%s)", what, pgErr.ConstraintName)
		case pgCheckViolation:
			return apperr.Validation("%s: violates %s", what, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
