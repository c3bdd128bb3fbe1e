package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies a business error so callers can decide between retrying,
// correcting input or giving up.
type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindValidation  Kind = "validation"
	KindPersistence Kind = "persistence"
)

type BusinessError struct {
	Kind  Kind
	Code  string
	Cause error
}

func (e BusinessError) Error() string {
	if e.Cause != nil {
		return e.Code + ": " + e.Cause.Error()
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Cause
}

// Retryable is true only for conflicts: the caller may pick another slot.
func (e BusinessError) Retryable() bool {
	return e.Kind == KindConflict
}

// ErrBusiness keeps the historical constructor; it is a validation failure.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrNotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func ErrValidation(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrPersistence(code string, cause error) error {
	return BusinessError{Kind: KindPersistence, Code: code, Cause: cause}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns the kind of a business error, or KindPersistence for any
// other non-nil error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindPersistence
}

func IsConflict(err error) bool {
	return err != nil && KindOf(err) == KindConflict
}

func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// IsExclusionConflict reports whether postgres rejected a write because of the
// appointments overlap exclusion constraint (23P01) or a unique violation (23505).
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01" || pgErr.Code == "23505"
	}
	return false
}
