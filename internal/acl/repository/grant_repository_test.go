package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aclDomain "github.com/allisson/keyosk/internal/acl/domain"
	apperrors "github.com/allisson/keyosk/internal/errors"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func sampleGrant() *aclDomain.Grant {
	return &aclDomain.Grant{
		AccountID:        uuid.Must(uuid.NewV7()),
		AccessListID:     uuid.Must(uuid.NewV7()),
		PermissionID:     uuid.Must(uuid.NewV7()),
		WithServerSecret: true,
	}
}

var grantColumns = []string{
	"account_id", "access_list_id", "permission_id", "with_server_secret", "with_client_secret",
	"access_list", "permission", "bitindex",
}

func TestPostgreSQLGrantRepository_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Idempotent", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLGrantRepository(db)
		g := sampleGrant()

		for range 2 {
			mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (account_id, access_list_id, permission_id) DO UPDATE")).
				WithArgs(g.AccountID, g.AccessListID, g.PermissionID, true, false).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}

		require.NoError(t, repo.Upsert(ctx, g))
		require.NoError(t, repo.Upsert(ctx, g))
	})

	t.Run("Error_UnknownAccount", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLGrantRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO acl_grants")).
			WillReturnError(&pq.Error{Code: "23503"})

		assert.ErrorIs(t, repo.Upsert(ctx, sampleGrant()), apperrors.ErrIntegrityViolation)
	})
}

func TestPostgreSQLGrantRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewPostgreSQLGrantRepository(db)
	g := sampleGrant()
	domainID := uuid.Must(uuid.NewV7())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM acl_grants WHERE account_id = $1 AND access_list_id = $2")).
		WithArgs(g.AccountID, g.AccessListID, g.PermissionID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("SELECT id FROM access_lists WHERE domain_id = $2")).
		WithArgs(g.AccountID, domainID).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.Delete(ctx, g.AccountID, g.AccessListID, g.PermissionID))
	require.NoError(t, repo.DeleteForAccountInDomain(ctx, g.AccountID, domainID))
}

func TestPostgreSQLGrantRepository_ListForAccountInDomain(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgreSQLGrantRepository(db)
	g := sampleGrant()
	domainID := uuid.Must(uuid.NewV7())

	mock.ExpectQuery(regexp.QuoteMeta("WHERE g.account_id = $1 AND al.domain_id = $2")).
		WithArgs(g.AccountID, domainID).
		WillReturnRows(sqlmock.NewRows(grantColumns).
			AddRow(g.AccountID.String(), g.AccessListID.String(), g.PermissionID.String(), true, false,
				"zatniktel", "fire", 1))

	grants, err := repo.ListForAccountInDomain(context.Background(), g.AccountID, domainID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, *g, grants[0].Grant)
	assert.Equal(t, "zatniktel", grants[0].AccessList)
	assert.Equal(t, "fire", grants[0].Permission)
	assert.Equal(t, 1, grants[0].BitIndex)
}

func TestMySQLGrantRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Upsert", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLGrantRepository(db)
		g := sampleGrant()

		mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE")).
			WithArgs(binaryID(g.AccountID), binaryID(g.AccessListID), binaryID(g.PermissionID), true, false).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Upsert(ctx, g))
	})

	t.Run("Upsert_UnknownPermission", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLGrantRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO acl_grants")).
			WillReturnError(&mysql.MySQLError{Number: 1452})

		assert.ErrorIs(t, repo.Upsert(ctx, sampleGrant()), apperrors.ErrIntegrityViolation)
	})

	t.Run("DeleteAndList", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLGrantRepository(db)
		g := sampleGrant()
		domainID := uuid.Must(uuid.NewV7())

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM acl_grants WHERE account_id = ?")).
			WithArgs(binaryID(g.AccountID), binaryID(g.AccessListID), binaryID(g.PermissionID)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta("WHERE g.account_id = ? AND al.domain_id = ?")).
			WithArgs(binaryID(g.AccountID), binaryID(domainID)).
			WillReturnRows(sqlmock.NewRows(grantColumns).
				AddRow(binaryID(g.AccountID), binaryID(g.AccessListID), binaryID(g.PermissionID), true, false,
					"stargate", "own", 0))

		require.NoError(t, repo.Delete(ctx, g.AccountID, g.AccessListID, g.PermissionID))

		grants, err := repo.ListForAccountInDomain(ctx, g.AccountID, domainID)
		require.NoError(t, err)
		require.Len(t, grants, 1)
		assert.Equal(t, g.PermissionID, grants[0].PermissionID)
		assert.Equal(t, "own", grants[0].Permission)
	})
}
