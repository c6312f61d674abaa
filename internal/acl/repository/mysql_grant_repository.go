package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	aclDomain "github.com/allisson/keyosk/internal/acl/domain"
	"github.com/allisson/keyosk/internal/database"
	apperrors "github.com/allisson/keyosk/internal/errors"
)

// MySQLGrantRepository implements ACL grant persistence for MySQL.
type MySQLGrantRepository struct {
	db *sql.DB
}

// NewMySQLGrantRepository creates a new MySQLGrantRepository.
func NewMySQLGrantRepository(db *sql.DB) *MySQLGrantRepository {
	return &MySQLGrantRepository{db: db}
}

func binaryID(id uuid.UUID) []byte {
	b, _ := id.MarshalBinary()
	return b
}

// Upsert stores a grant, overwriting the secret type flags of an existing one.
func (m *MySQLGrantRepository) Upsert(ctx context.Context, grant *aclDomain.Grant) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO acl_grants
				(account_id, access_list_id, permission_id, with_server_secret, with_client_secret)
			  VALUES (?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
				with_server_secret = VALUES(with_server_secret),
				with_client_secret = VALUES(with_client_secret)`

	_, err := querier.ExecContext(
		ctx,
		query,
		binaryID(grant.AccountID),
		binaryID(grant.AccessListID),
		binaryID(grant.PermissionID),
		grant.WithServerSecret,
		grant.WithClientSecret,
	)
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to upsert grant")
	}
	return nil
}

// Delete removes a grant. Deleting an absent grant succeeds.
func (m *MySQLGrantRepository) Delete(ctx context.Context, accountID, accessListID, permissionID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM acl_grants WHERE account_id = ? AND access_list_id = ? AND permission_id = ?`

	_, err := querier.ExecContext(ctx, query, binaryID(accountID), binaryID(accessListID), binaryID(permissionID))
	if err != nil {
		return apperrors.Wrap(err, "failed to delete grant")
	}
	return nil
}

// DeleteForAccountInDomain removes every grant of an account under a domain.
func (m *MySQLGrantRepository) DeleteForAccountInDomain(ctx context.Context, accountID, domainID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM acl_grants
			  WHERE account_id = ?
			  AND access_list_id IN (SELECT id FROM access_lists WHERE domain_id = ?)`

	if _, err := querier.ExecContext(ctx, query, binaryID(accountID), binaryID(domainID)); err != nil {
		return apperrors.Wrap(err, "failed to delete grants")
	}
	return nil
}

// ListForAccountInDomain returns the grants of an account under a domain, resolved to
// names and bit indexes, ordered by access list name then bit index.
func (m *MySQLGrantRepository) ListForAccountInDomain(
	ctx context.Context,
	accountID, domainID uuid.UUID,
) ([]*aclDomain.ResolvedGrant, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + resolvedGrantColumns + `
			  FROM acl_grants g
			  JOIN access_lists al ON al.id = g.access_list_id
			  JOIN permissions p ON p.id = g.permission_id
			  WHERE g.account_id = ? AND al.domain_id = ?
			  ORDER BY al.name, p.bitindex`

	rows, err := querier.QueryContext(ctx, query, binaryID(accountID), binaryID(domainID))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list grants")
	}
	defer func() { _ = rows.Close() }()

	grants := make([]*aclDomain.ResolvedGrant, 0)
	for rows.Next() {
		var g aclDomain.ResolvedGrant
		var account, accessList, permission []byte
		if err := rows.Scan(
			&account,
			&accessList,
			&permission,
			&g.WithServerSecret,
			&g.WithClientSecret,
			&g.AccessList,
			&g.Permission,
			&g.BitIndex,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan grant")
		}
		if err := g.AccountID.UnmarshalBinary(account); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal account id")
		}
		if err := g.AccessListID.UnmarshalBinary(accessList); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal access list id")
		}
		if err := g.PermissionID.UnmarshalBinary(permission); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal permission id")
		}
		grants = append(grants, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate grants")
	}
	return grants, nil
}
