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

	apperrors "github.com/allisson/keyosk/internal/errors"
	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
)

func binaryDomainID(d *registryDomain.Domain) any { return binaryID(d.ID) }

func TestMySQLDomainRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLDomainRepository(db)
		d := sampleDomain()

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO domains")).
			WithArgs(binaryID(d.ID), d.Name, d.Audience, d.Title, d.Description, d.Contact, d.Enabled,
				d.EnableClientSetAuth, d.EnableServerSetAuth, d.EnableRefresh, int64(900), int64(86400),
				d.Created, d.Updated).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, d))
	})

	t.Run("Error_DuplicateName", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLDomainRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO domains")).
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'stargate'"})

		assert.ErrorIs(t, repo.Create(ctx, sampleDomain()), apperrors.ErrDuplicateName)
	})
}

func TestMySQLDomainRepository_Update(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLDomainRepository(db)
	d := sampleDomain()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE domains")).
		WithArgs(d.Name, d.Audience, d.Title, d.Description, d.Contact, d.Enabled,
			d.EnableClientSetAuth, d.EnableServerSetAuth, d.EnableRefresh, int64(900), int64(86400),
			d.Created, d.Updated, binaryID(d.ID)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), d))
}

func TestMySQLDomainRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLDomainRepository(db)
		d := sampleDomain()

		mock.ExpectQuery(regexp.QuoteMeta("FROM domains WHERE id = ?")).
			WithArgs(binaryID(d.ID)).
			WillReturnRows(domainRows(binaryDomainID, d))

		got, err := repo.Get(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, d, got)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLDomainRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM domains WHERE name = ?")).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByName(ctx, "tokra")
		assert.ErrorIs(t, err, registryDomain.ErrDomainNotFound)
	})
}

func TestMySQLDomainRepository_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewMySQLDomainRepository(db)
	d := sampleDomain()

	mock.ExpectQuery(regexp.QuoteMeta("FROM domains ORDER BY name LIMIT ? OFFSET ?")).
		WithArgs(10, 20).
		WillReturnRows(domainRows(binaryDomainID, d))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM domains WHERE id = ?")).
		WithArgs(binaryID(d.ID)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	domains, err := repo.List(ctx, 20, 10)
	require.NoError(t, err)
	require.Len(t, domains, 1)
	assert.Equal(t, d.ID, domains[0].ID)

	require.NoError(t, repo.Delete(ctx, d.ID))
}

func TestMySQLDomainRepository_Admin(t *testing.T) {
	ctx := context.Background()
	domainID := uuid.Must(uuid.NewV7())
	listID := uuid.Must(uuid.NewV7())
	createID := uuid.Must(uuid.NewV7())

	t.Run("Upsert", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLDomainRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE")).
			WithArgs(binaryID(domainID), binaryID(listID), nil, nil, binaryID(createID), nil, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpsertAdmin(ctx, &registryDomain.DomainAdmin{
			DomainID:      domainID,
			AccessListID:  &listID,
			AccountCreate: &createID,
		})
		require.NoError(t, err)
	})

	t.Run("Get", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLDomainRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM domain_admins WHERE domain_id = ?")).
			WithArgs(binaryID(domainID)).
			WillReturnRows(sqlmock.NewRows([]string{
				"access_list_id", "domain_read_id", "domain_update_id", "account_create_id",
				"account_read_id", "account_delete_id",
			}).AddRow(binaryID(listID), nil, nil, binaryID(createID), nil, nil))

		admin, err := repo.GetAdmin(ctx, domainID)
		require.NoError(t, err)
		assert.Equal(t, &listID, admin.AccessListID)
		assert.Equal(t, &createID, admin.PermissionFor(registryDomain.ActionAccountUpdate))
		assert.Nil(t, admin.PermissionFor(registryDomain.ActionDomainDelete))
	})
}

func TestMySQLCatalogRepository(t *testing.T) {
	ctx := context.Background()
	domainID := uuid.Must(uuid.NewV7())

	t.Run("CreateAccessList", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLCatalogRepository(db)
		list := &registryDomain.AccessList{ID: uuid.Must(uuid.NewV7()), DomainID: domainID, Name: "stargate"}

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO access_lists")).
			WithArgs(binaryID(list.ID), binaryID(domainID), "stargate").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.CreateAccessList(ctx, list))
	})

	t.Run("GetAccessListByName", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLCatalogRepository(db)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectQuery(regexp.QuoteMeta("FROM access_lists WHERE domain_id = ? AND name = ?")).
			WithArgs(binaryID(domainID), "stargate").
			WillReturnRows(sqlmock.NewRows([]string{"id", "domain_id", "name"}).
				AddRow(binaryID(id), binaryID(domainID), "stargate"))

		list, err := repo.GetAccessListByName(ctx, domainID, "stargate")
		require.NoError(t, err)
		assert.Equal(t, id, list.ID)
		assert.Equal(t, domainID, list.DomainID)
	})

	t.Run("ListPermissions", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLCatalogRepository(db)

		rows := sqlmock.NewRows([]string{"id", "domain_id", "name", "bitindex"}).
			AddRow(binaryID(uuid.Must(uuid.NewV7())), binaryID(domainID), "own", 0).
			AddRow(binaryID(uuid.Must(uuid.NewV7())), binaryID(domainID), "fire", 1)
		mock.ExpectQuery(regexp.QuoteMeta("FROM permissions WHERE domain_id = ? ORDER BY bitindex")).
			WithArgs(binaryID(domainID)).
			WillReturnRows(rows)

		perms, err := repo.ListPermissions(ctx, domainID)
		require.NoError(t, err)
		require.Len(t, perms, 2)
		assert.Equal(t, "fire", perms[1].Name)
	})

	t.Run("ReindexAndDelete", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLCatalogRepository(db)
		permID := uuid.Must(uuid.NewV7())

		mock.ExpectExec(regexp.QuoteMeta("SET bitindex = -bitindex - 1 WHERE domain_id = ?")).
			WithArgs(binaryID(domainID)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE permissions SET bitindex = ? WHERE id = ?")).
			WithArgs(0, binaryID(permID)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM permissions WHERE id = ?")).
			WithArgs(binaryID(permID)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.ParkBitIndexes(ctx, domainID))
		require.NoError(t, repo.SetBitIndex(ctx, permID, 0))
		require.NoError(t, repo.DeletePermission(ctx, permID))
	})
}
