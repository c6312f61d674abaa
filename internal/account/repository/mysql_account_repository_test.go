package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	apperrors "github.com/allisson/keyosk/internal/errors"
)

func mysqlAccountRows(a *accountDomain.Account) *sqlmock.Rows {
	id, _ := a.ID.MarshalBinary()
	extras, _ := marshalExtras(a.Extras)
	return sqlmock.NewRows([]string{
		"id", "username", "client_secret_hash", "server_secret_hash", "enabled", "extras", "created", "updated",
	}).AddRow(id, a.Username, a.ClientSecretHash, a.ServerSecretHash, a.Enabled, extras, a.Created, a.Updated)
}

func TestMySQLAccountRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_BinaryID", func(t *testing.T) {
		db, mock := newMock(t)
		account := sampleAccount()
		id, _ := account.ID.MarshalBinary()

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO accounts`)).
			WithArgs(id, account.Username, sqlmock.AnyArg(), sqlmock.AnyArg(), true, sqlmock.AnyArg(),
				account.Created, account.Updated).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewMySQLAccountRepository(db).Create(ctx, account))
	})

	t.Run("Error_DuplicateUsername", func(t *testing.T) {
		db, mock := newMock(t)

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO accounts`)).
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'oneill'"})

		err := NewMySQLAccountRepository(db).Create(ctx, sampleAccount())
		assert.ErrorIs(t, err, apperrors.ErrDuplicateName)
	})
}

func TestMySQLAccountRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMock(t)
		account := sampleAccount()
		id, _ := account.ID.MarshalBinary()

		mock.ExpectQuery(regexp.QuoteMeta(`FROM accounts WHERE id = ?`)).
			WithArgs(id).
			WillReturnRows(mysqlAccountRows(account))

		got, err := NewMySQLAccountRepository(db).Get(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
		assert.Equal(t, account.Extras, got.Extras)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM accounts WHERE username = ?`)).
			WithArgs("daniel").
			WillReturnError(sql.ErrNoRows)

		_, err := NewMySQLAccountRepository(db).GetByUsername(ctx, "daniel")
		assert.ErrorIs(t, err, accountDomain.ErrAccountNotFound)
	})
}

func TestMySQLAccountRepository_InDomain(t *testing.T) {
	ctx := context.Background()
	domainID := uuid.Must(uuid.NewV7())
	domain, _ := domainID.MarshalBinary()

	t.Run("Success_Get", func(t *testing.T) {
		db, mock := newMock(t)
		account := sampleAccount()
		id, _ := account.ID.MarshalBinary()

		mock.ExpectQuery(regexp.QuoteMeta(`FROM accounts WHERE id = ? AND EXISTS (SELECT 1 FROM acl_grants g`)).
			WithArgs(id, domain).
			WillReturnRows(mysqlAccountRows(account))

		got, err := NewMySQLAccountRepository(db).GetInDomain(ctx, account.ID, domainID)
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
	})

	t.Run("Success_List", func(t *testing.T) {
		db, mock := newMock(t)
		account := sampleAccount()

		mock.ExpectQuery(regexp.QuoteMeta(`l.domain_id = ?) ORDER BY username LIMIT ? OFFSET ?`)).
			WithArgs(domain, 10, 0).
			WillReturnRows(mysqlAccountRows(account))

		accounts, err := NewMySQLAccountRepository(db).ListInDomain(ctx, domainID, 0, 10)
		require.NoError(t, err)
		require.Len(t, accounts, 1)
	})
}

func TestMySQLAccountRepository_Delete(t *testing.T) {
	db, mock := newMock(t)
	accountID := uuid.Must(uuid.NewV7())
	id, _ := accountID.MarshalBinary()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM accounts WHERE id = ?`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, NewMySQLAccountRepository(db).Delete(context.Background(), accountID))
}
