package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/keyosk/internal/database"
	apperrors "github.com/allisson/keyosk/internal/errors"
	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
)

// MySQLCatalogRepository persists the access lists and permissions of domains in MySQL.
type MySQLCatalogRepository struct {
	db *sql.DB
}

// NewMySQLCatalogRepository creates a new MySQLCatalogRepository.
func NewMySQLCatalogRepository(db *sql.DB) *MySQLCatalogRepository {
	return &MySQLCatalogRepository{db: db}
}

func scanMySQLAccessList(row rowScanner) (*registryDomain.AccessList, error) {
	var list registryDomain.AccessList
	var id, domainID []byte
	if err := row.Scan(&id, &domainID, &list.Name); err != nil {
		return nil, err
	}
	if err := list.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal access list id")
	}
	if err := list.DomainID.UnmarshalBinary(domainID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal domain id")
	}
	return &list, nil
}

// CreateAccessList inserts an access list. A name taken within the domain surfaces as
// ErrDuplicateName.
func (m *MySQLCatalogRepository) CreateAccessList(ctx context.Context, list *registryDomain.AccessList) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO access_lists (id, domain_id, name) VALUES (?, ?, ?)`

	if _, err := querier.ExecContext(ctx, query, binaryID(list.ID), binaryID(list.DomainID), list.Name); err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to create access list")
	}
	return nil
}

// ListAccessLists returns the access lists of a domain ordered by name.
func (m *MySQLCatalogRepository) ListAccessLists(
	ctx context.Context,
	domainID uuid.UUID,
) ([]*registryDomain.AccessList, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, domain_id, name FROM access_lists WHERE domain_id = ? ORDER BY name`

	rows, err := querier.QueryContext(ctx, query, binaryID(domainID))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access lists")
	}
	defer func() { _ = rows.Close() }()

	lists := make([]*registryDomain.AccessList, 0)
	for rows.Next() {
		list, err := scanMySQLAccessList(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan access list")
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate access lists")
	}
	return lists, nil
}

// GetAccessListByName retrieves an access list of a domain by name.
func (m *MySQLCatalogRepository) GetAccessListByName(
	ctx context.Context,
	domainID uuid.UUID,
	name string,
) (*registryDomain.AccessList, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, domain_id, name FROM access_lists WHERE domain_id = ? AND name = ?`

	list, err := scanMySQLAccessList(querier.QueryRowContext(ctx, query, binaryID(domainID), name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, registryDomain.ErrAccessListNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get access list")
	}
	return list, nil
}

// CreatePermission inserts a permission. A name or bit index taken within the domain
// surfaces as ErrDuplicateName.
func (m *MySQLCatalogRepository) CreatePermission(ctx context.Context, perm *registryDomain.Permission) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO permissions (id, domain_id, name, bitindex) VALUES (?, ?, ?, ?)`

	_, err := querier.ExecContext(ctx, query, binaryID(perm.ID), binaryID(perm.DomainID), perm.Name, perm.BitIndex)
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to create permission")
	}
	return nil
}

// ListPermissions returns the permissions of a domain ordered by bit index.
func (m *MySQLCatalogRepository) ListPermissions(
	ctx context.Context,
	domainID uuid.UUID,
) ([]*registryDomain.Permission, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, domain_id, name, bitindex FROM permissions WHERE domain_id = ? ORDER BY bitindex`

	rows, err := querier.QueryContext(ctx, query, binaryID(domainID))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list permissions")
	}
	defer func() { _ = rows.Close() }()

	permissions := make([]*registryDomain.Permission, 0)
	for rows.Next() {
		var perm registryDomain.Permission
		var id, dID []byte
		if err := rows.Scan(&id, &dID, &perm.Name, &perm.BitIndex); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan permission")
		}
		if err := perm.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal permission id")
		}
		if err := perm.DomainID.UnmarshalBinary(dID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal domain id")
		}
		permissions = append(permissions, &perm)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate permissions")
	}
	return permissions, nil
}

// SetBitIndex moves a permission to a new bit index.
func (m *MySQLCatalogRepository) SetBitIndex(ctx context.Context, permissionID uuid.UUID, bitIndex int) error {
	querier := database.GetTx(ctx, m.db)

	_, err := querier.ExecContext(ctx, `UPDATE permissions SET bitindex = ? WHERE id = ?`, bitIndex, binaryID(permissionID))
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to update permission bit index")
	}
	return nil
}

// ParkBitIndexes moves every bit index of a domain to a negative value so a new
// assignment can be written without tripping the per-domain unique constraint.
func (m *MySQLCatalogRepository) ParkBitIndexes(ctx context.Context, domainID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	_, err := querier.ExecContext(ctx, `UPDATE permissions SET bitindex = -bitindex - 1 WHERE domain_id = ?`, binaryID(domainID))
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to park permission bit indexes")
	}
	return nil
}

// DeletePermission removes a permission and, through the cascade, every grant of it.
func (m *MySQLCatalogRepository) DeletePermission(ctx context.Context, permissionID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM permissions WHERE id = ?`, binaryID(permissionID))
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to delete permission")
	}
	return requireAffected(result, registryDomain.ErrPermissionNotFound, "failed to delete permission")
}
