package database

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	apperrors "github.com/allisson/keyosk/internal/errors"
)

// PostgreSQL SQLSTATE codes.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqNotNullViolation    = "23502"
)

// MySQL server error numbers.
const (
	mysqlDuplicateEntry     = 1062
	mysqlColumnCannotBeNull = 1048
	mysqlRowIsReferenced    = 1451
	mysqlNoReferencedRow    = 1452
)

// TranslateError maps driver specific constraint failures onto the storage errors of
// the errors package. Unique violations become ErrDuplicateName, other constraint
// failures become ErrIntegrityViolation. Any other error is returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return apperrors.Wrap(apperrors.ErrDuplicateName, pqErr.Constraint)
		case pqForeignKeyViolation, pqNotNullViolation:
			return apperrors.Wrap(apperrors.ErrIntegrityViolation, pqErr.Message)
		}
		return err
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return apperrors.Wrap(apperrors.ErrDuplicateName, myErr.Message)
		case mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlColumnCannotBeNull:
			return apperrors.Wrap(apperrors.ErrIntegrityViolation, myErr.Message)
		}
	}

	return err
}
