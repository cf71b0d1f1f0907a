package service

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
	ErrTimeout            = errors.New("statement timed out")
	ErrUnavailable        = errors.New("storage unavailable")
)

// sqlStateQueryCanceled is what postgres reports when statement_timeout fires.
const sqlStateQueryCanceled = "57014"

type sqlStater interface {
	SQLState() string
}

// classify maps a storage error onto the package's error kinds. The original
// error is not wrapped into the result, so no driver type escapes.
func classify(err error) error {
	var st sqlStater
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.As(err, &st) && st.SQLState() == sqlStateQueryCanceled:
		return ErrTimeout
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrNotFound
	}
	for _, kind := range []error{ErrNotFound, ErrConflict, ErrInvalidInput, ErrInvalidCredentials, ErrPasswordMismatch, ErrTimeout} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return ErrUnavailable
}
