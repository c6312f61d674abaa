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

// PostgreSQLCatalogRepository persists the access lists and permissions of domains in
// PostgreSQL.
type PostgreSQLCatalogRepository struct {
	db *sql.DB
}

// NewPostgreSQLCatalogRepository creates a new PostgreSQLCatalogRepository.
func NewPostgreSQLCatalogRepository(db *sql.DB) *PostgreSQLCatalogRepository {
	return &PostgreSQLCatalogRepository{db: db}
}

// CreateAccessList inserts an access list. A name taken within the domain surfaces as
// ErrDuplicateName.
func (p *PostgreSQLCatalogRepository) CreateAccessList(ctx context.Context, list *registryDomain.AccessList) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO access_lists (id, domain_id, name) VALUES ($1, $2, $3)`

	if _, err := querier.ExecContext(ctx, query, list.ID, list.DomainID, list.Name); err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to create access list")
	}
	return nil
}

// ListAccessLists returns the access lists of a domain ordered by name.
func (p *PostgreSQLCatalogRepository) ListAccessLists(
	ctx context.Context,
	domainID uuid.UUID,
) ([]*registryDomain.AccessList, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, domain_id, name FROM access_lists WHERE domain_id = $1 ORDER BY name`

	rows, err := querier.QueryContext(ctx, query, domainID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access lists")
	}
	defer func() { _ = rows.Close() }()

	lists := make([]*registryDomain.AccessList, 0)
	for rows.Next() {
		var list registryDomain.AccessList
		if err := rows.Scan(&list.ID, &list.DomainID, &list.Name); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan access list")
		}
		lists = append(lists, &list)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate access lists")
	}
	return lists, nil
}

// GetAccessListByName retrieves an access list of a domain by name.
func (p *PostgreSQLCatalogRepository) GetAccessListByName(
	ctx context.Context,
	domainID uuid.UUID,
	name string,
) (*registryDomain.AccessList, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, domain_id, name FROM access_lists WHERE domain_id = $1 AND name = $2`

	var list registryDomain.AccessList
	err := querier.QueryRowContext(ctx, query, domainID, name).Scan(&list.ID, &list.DomainID, &list.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, registryDomain.ErrAccessListNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get access list")
	}
	return &list, nil
}

// CreatePermission inserts a permission. A name or bit index taken within the domain
// surfaces as ErrDuplicateName.
func (p *PostgreSQLCatalogRepository) CreatePermission(ctx context.Context, perm *registryDomain.Permission) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO permissions (id, domain_id, name, bitindex) VALUES ($1, $2, $3, $4)`

	if _, err := querier.ExecContext(ctx, query, perm.ID, perm.DomainID, perm.Name, perm.BitIndex); err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to create permission")
	}
	return nil
}

// ListPermissions returns the permissions of a domain ordered by bit index.
func (p *PostgreSQLCatalogRepository) ListPermissions(
	ctx context.Context,
	domainID uuid.UUID,
) ([]*registryDomain.Permission, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, domain_id, name, bitindex FROM permissions WHERE domain_id = $1 ORDER BY bitindex`

	rows, err := querier.QueryContext(ctx, query, domainID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list permissions")
	}
	defer func() { _ = rows.Close() }()

	permissions := make([]*registryDomain.Permission, 0)
	for rows.Next() {
		var perm registryDomain.Permission
		if err := rows.Scan(&perm.ID, &perm.DomainID, &perm.Name, &perm.BitIndex); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan permission")
		}
		permissions = append(permissions, &perm)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate permissions")
	}
	return permissions, nil
}

// SetBitIndex moves a permission to a new bit index.
func (p *PostgreSQLCatalogRepository) SetBitIndex(ctx context.Context, permissionID uuid.UUID, bitIndex int) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `UPDATE permissions SET bitindex = $1 WHERE id = $2`, bitIndex, permissionID)
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to update permission bit index")
	}
	return requireAffected(result, registryDomain.ErrPermissionNotFound, "failed to update permission bit index")
}

// ParkBitIndexes moves every bit index of a domain to a negative value so a new
// assignment can be written without tripping the per-domain unique constraint.
func (p *PostgreSQLCatalogRepository) ParkBitIndexes(ctx context.Context, domainID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	_, err := querier.ExecContext(ctx, `UPDATE permissions SET bitindex = -bitindex - 1 WHERE domain_id = $1`, domainID)
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to park permission bit indexes")
	}
	return nil
}

// DeletePermission removes a permission and, through the cascade, every grant of it.
func (p *PostgreSQLCatalogRepository) DeletePermission(ctx context.Context, permissionID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM permissions WHERE id = $1`, permissionID)
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to delete permission")
	}
	return requireAffected(result, registryDomain.ErrPermissionNotFound, "failed to delete permission")
}
