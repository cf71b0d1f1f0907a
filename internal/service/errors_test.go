package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePgError struct {
	code string
}

func (e fakePgError) Error() string    { return "pg error " + e.code }
func (e fakePgError) SQLState() string { return e.code }

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"deadline", errors.Wrap(context.DeadlineExceeded, "query"), ErrTimeout},
		{"statement timeout", fakePgError{code: "57014"}, ErrTimeout},
		{"not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"duplicate", errors.Wrap(gorm.ErrDuplicatedKey, "insert"), ErrConflict},
		{"foreign key", gorm.ErrForeignKeyViolated, ErrNotFound},
		{"other pg error", fakePgError{code: "08006"}, ErrUnavailable},
		{"unknown", errors.New("connection refused"), ErrUnavailable},
		{"own kind passes through", errors.Wrap(ErrInvalidInput, "title"), ErrInvalidInput},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := classify(c.in)
			if c.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, c.want)
		})
	}
}

func TestExpiredContextIsTimeout(t *testing.T) {
	e := newTestEnv(t)
	alice := e.user(t, "alice")

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()

	_, err := e.fridge.ListIngredients(ctx, alice)
	assert.ErrorIs(t, err, ErrTimeout)
}
