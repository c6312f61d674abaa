package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/keyosk/internal/errors"
)

func TestConnect_UnsupportedDriver(t *testing.T) {
	cfg := Config{
		Driver:             "sqlite",
		ConnectionString:   "file::memory:",
		MaxOpenConnections: 10,
		MaxIdleConnections: 5,
		ConnMaxLifetime:    time.Hour,
	}

	db, err := Connect(context.Background(), cfg)
	assert.Nil(t, db)
	assert.EqualError(t, err, "unsupported database driver: sqlite")
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{
			name:   "postgres unique violation",
			err:    &pq.Error{Code: "23505", Constraint: "accounts_username_key"},
			target: apperrors.ErrDuplicateName,
		},
		{
			name:   "postgres foreign key violation",
			err:    &pq.Error{Code: "23503", Message: "violates foreign key constraint"},
			target: apperrors.ErrIntegrityViolation,
		},
		{
			name:   "postgres not null violation",
			err:    &pq.Error{Code: "23502"},
			target: apperrors.ErrIntegrityViolation,
		},
		{
			name:   "mysql duplicate entry",
			err:    &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"},
			target: apperrors.ErrDuplicateName,
		},
		{
			name:   "mysql missing referenced row",
			err:    &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"},
			target: apperrors.ErrIntegrityViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, TranslateError(tt.err), tt.target)
		})
	}

	t.Run("unrelated errors pass through", func(t *testing.T) {
		plain := errors.New("connection reset")
		assert.Same(t, plain, TranslateError(plain))

		pqOther := &pq.Error{Code: "40001"}
		assert.Equal(t, error(pqOther), TranslateError(pqOther))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, TranslateError(nil))
	})
}
