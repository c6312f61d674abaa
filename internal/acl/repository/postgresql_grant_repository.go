// Package repository persists ACL grants for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	aclDomain "github.com/allisson/keyosk/internal/acl/domain"
	"github.com/allisson/keyosk/internal/database"
	apperrors "github.com/allisson/keyosk/internal/errors"
)

// PostgreSQLGrantRepository implements ACL grant persistence for PostgreSQL.
type PostgreSQLGrantRepository struct {
	db *sql.DB
}

// NewPostgreSQLGrantRepository creates a new PostgreSQLGrantRepository.
func NewPostgreSQLGrantRepository(db *sql.DB) *PostgreSQLGrantRepository {
	return &PostgreSQLGrantRepository{db: db}
}

// Upsert stores a grant, overwriting the secret type flags of an existing one.
func (p *PostgreSQLGrantRepository) Upsert(ctx context.Context, grant *aclDomain.Grant) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO acl_grants
				(account_id, access_list_id, permission_id, with_server_secret, with_client_secret)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (account_id, access_list_id, permission_id) DO UPDATE
			  SET with_server_secret = EXCLUDED.with_server_secret,
				  with_client_secret = EXCLUDED.with_client_secret`

	_, err := querier.ExecContext(
		ctx,
		query,
		grant.AccountID,
		grant.AccessListID,
		grant.PermissionID,
		grant.WithServerSecret,
		grant.WithClientSecret,
	)
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to upsert grant")
	}
	return nil
}

// Delete removes a grant. Deleting an absent grant succeeds.
func (p *PostgreSQLGrantRepository) Delete(ctx context.Context, accountID, accessListID, permissionID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM acl_grants WHERE account_id = $1 AND access_list_id = $2 AND permission_id = $3`

	if _, err := querier.ExecContext(ctx, query, accountID, accessListID, permissionID); err != nil {
		return apperrors.Wrap(err, "failed to delete grant")
	}
	return nil
}

// DeleteForAccountInDomain removes every grant of an account under a domain.
func (p *PostgreSQLGrantRepository) DeleteForAccountInDomain(ctx context.Context, accountID, domainID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM acl_grants
			  WHERE account_id = $1
			  AND access_list_id IN (SELECT id FROM access_lists WHERE domain_id = $2)`

	if _, err := querier.ExecContext(ctx, query, accountID, domainID); err != nil {
		return apperrors.Wrap(err, "failed to delete grants")
	}
	return nil
}

// ListForAccountInDomain returns the grants of an account under a domain, resolved to
// names and bit indexes, ordered by access list name then bit index.
func (p *PostgreSQLGrantRepository) ListForAccountInDomain(
	ctx context.Context,
	accountID, domainID uuid.UUID,
) ([]*aclDomain.ResolvedGrant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + resolvedGrantColumns + `
			  FROM acl_grants g
			  JOIN access_lists al ON al.id = g.access_list_id
			  JOIN permissions p ON p.id = g.permission_id
			  WHERE g.account_id = $1 AND al.domain_id = $2
			  ORDER BY al.name, p.bitindex`

	rows, err := querier.QueryContext(ctx, query, accountID, domainID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list grants")
	}
	defer func() { _ = rows.Close() }()

	grants := make([]*aclDomain.ResolvedGrant, 0)
	for rows.Next() {
		var g aclDomain.ResolvedGrant
		if err := rows.Scan(
			&g.AccountID,
			&g.AccessListID,
			&g.PermissionID,
			&g.WithServerSecret,
			&g.WithClientSecret,
			&g.AccessList,
			&g.Permission,
			&g.BitIndex,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan grant")
		}
		grants = append(grants, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate grants")
	}
	return grants, nil
}

const resolvedGrantColumns = `g.account_id, g.access_list_id, g.permission_id, g.with_server_secret,
				g.with_client_secret, al.name, p.name, p.bitindex`
