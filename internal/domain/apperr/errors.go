// Package apperr defines the error taxonomy shared by the domain, the use
// cases and the transports. Errors are built with cockroachdb/errors and
// marked with one of the sentinels below so callers can classify them with
// errors.Is regardless of how much context was wrapped around them.
package apperr

import (
	"github.com/cockroachdb/errors"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrAuthorization = errors.New("authorization error")
	ErrState         = errors.New("state error")
	ErrNotFound      = errors.New("not found")
	// ErrConflict is reported when a compare-and-swap update lost the race.
	// It is also marked as ErrState.
	ErrConflict = errors.New("concurrent modification")
)

// Validation returns an error marked as ErrValidation.
func Validation(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrValidation)
}

// Authorization returns an error marked as ErrAuthorization.
func Authorization(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrAuthorization)
}

// State returns an error marked as ErrState.
func State(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrState)
}

// NotFound returns an error marked as ErrNotFound.
func NotFound(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}

// Conflict returns an error marked as both ErrConflict and ErrState.
func Conflict(format string, args ...any) error {
	return errors.Mark(errors.Mark(errors.Newf(format, args...), ErrConflict), ErrState)
}

// WithHint attaches a user-facing hint to err without changing its marks.
func WithHint(err error, hint string) error {
	return errors.WithHint(err, hint)
}

// Hint returns the first user-facing hint attached to err, or "".
func Hint(err error) string {
	hints := errors.GetAllHints(err)
	if len(hints) == 0 {
		return ""
	}
	return hints[0]
}

func IsValidation(err error) bool    { return errors.Is(err, ErrValidation) }
func IsAuthorization(err error) bool { return errors.Is(err, ErrAuthorization) }
func IsState(err error) bool         { return errors.Is(err, ErrState) }
func IsNotFound(err error) bool      { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool      { return errors.Is(err, ErrConflict) }
