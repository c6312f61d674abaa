// Package repository persists accounts in PostgreSQL and MySQL. PostgreSQL stores ids as
// native UUID and extras as JSONB, MySQL as BINARY(16) and JSON.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	"github.com/allisson/keyosk/internal/database"
	apperrors "github.com/allisson/keyosk/internal/errors"
)

const accountColumns = `id, username, client_secret_hash, server_secret_hash, enabled, extras, created, updated`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func marshalExtras(extras map[string]any) ([]byte, error) {
	if extras == nil {
		extras = map[string]any{}
	}
	data, err := json.Marshal(extras)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal account extras")
	}
	return data, nil
}

func unmarshalExtras(data []byte, account *accountDomain.Account) error {
	account.Extras = map[string]any{}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &account.Extras); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal account extras")
	}
	return nil
}

// PostgreSQLAccountRepository implements account persistence for PostgreSQL.
type PostgreSQLAccountRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccountRepository creates a new PostgreSQLAccountRepository.
func NewPostgreSQLAccountRepository(db *sql.DB) *PostgreSQLAccountRepository {
	return &PostgreSQLAccountRepository{db: db}
}

func (p *PostgreSQLAccountRepository) scan(row rowScanner) (*accountDomain.Account, error) {
	var account accountDomain.Account
	var extras []byte
	if err := row.Scan(
		&account.ID,
		&account.Username,
		&account.ClientSecretHash,
		&account.ServerSecretHash,
		&account.Enabled,
		&extras,
		&account.Created,
		&account.Updated,
	); err != nil {
		return nil, err
	}
	if err := unmarshalExtras(extras, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Create inserts a new account. A taken username surfaces as ErrDuplicateName.
func (p *PostgreSQLAccountRepository) Create(ctx context.Context, account *accountDomain.Account) error {
	querier := database.GetTx(ctx, p.db)

	extras, err := marshalExtras(account.Extras)
	if err != nil {
		return err
	}

	query := `INSERT INTO accounts (` + accountColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = querier.ExecContext(
		ctx,
		query,
		account.ID,
		account.Username,
		account.ClientSecretHash,
		account.ServerSecretHash,
		account.Enabled,
		extras,
		account.Created,
		account.Updated,
	)
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to create account")
	}
	return nil
}

// Update overwrites every mutable column of an existing account.
func (p *PostgreSQLAccountRepository) Update(ctx context.Context, account *accountDomain.Account) error {
	querier := database.GetTx(ctx, p.db)

	extras, err := marshalExtras(account.Extras)
	if err != nil {
		return err
	}

	query := `UPDATE accounts
			  SET username = $1,
				  client_secret_hash = $2,
				  server_secret_hash = $3,
				  enabled = $4,
				  extras = $5,
				  updated = $6
			  WHERE id = $7`

	result, err := querier.ExecContext(
		ctx,
		query,
		account.Username,
		account.ClientSecretHash,
		account.ServerSecretHash,
		account.Enabled,
		extras,
		account.Updated,
		account.ID,
	)
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to update account")
	}
	return requireAffected(result, "failed to update account")
}

// Get retrieves an account by id.
func (p *PostgreSQLAccountRepository) Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := p.scan(querier.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accountDomain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account")
	}
	return account, nil
}

// GetByUsername retrieves an account by its unique username.
func (p *PostgreSQLAccountRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*accountDomain.Account, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`

	account, err := p.scan(querier.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accountDomain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account by username")
	}
	return account, nil
}

// GetInDomain retrieves an account by id when it holds at least one grant in the domain.
func (p *PostgreSQLAccountRepository) GetInDomain(
	ctx context.Context,
	accountID, domainID uuid.UUID,
) (*accountDomain.Account, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND ` + pgAssignedTo("$2")

	account, err := p.scan(querier.QueryRowContext(ctx, query, accountID, domainID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accountDomain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account")
	}
	return account, nil
}

// List returns accounts ordered by username.
func (p *PostgreSQLAccountRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*accountDomain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY username LIMIT $1 OFFSET $2`
	return p.list(ctx, query, limit, offset)
}

// ListInDomain returns the accounts holding grants in the domain, ordered by username.
func (p *PostgreSQLAccountRepository) ListInDomain(
	ctx context.Context,
	domainID uuid.UUID,
	offset, limit int,
) ([]*accountDomain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + pgAssignedTo("$1") +
		` ORDER BY username LIMIT $2 OFFSET $3`
	return p.list(ctx, query, domainID, limit, offset)
}

func (p *PostgreSQLAccountRepository) list(
	ctx context.Context,
	query string,
	args ...any,
) ([]*accountDomain.Account, error) {
	querier := database.GetTx(ctx, p.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list accounts")
	}
	defer func() { _ = rows.Close() }()

	accounts := make([]*accountDomain.Account, 0)
	for rows.Next() {
		account, err := p.scan(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan account")
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate accounts")
	}
	return accounts, nil
}

// pgAssignedTo filters accounts holding a grant on an access list of the domain bound
// to placeholder.
func pgAssignedTo(placeholder string) string {
	return `EXISTS (SELECT 1 FROM acl_grants g JOIN access_lists l ON l.id = g.access_list_id ` +
		`WHERE g.account_id = accounts.id AND l.domain_id = ` + placeholder + `)`
}

// Delete removes an account. Grants cascade, tokens keep their row with a NULL account.
func (p *PostgreSQLAccountRepository) Delete(ctx context.Context, accountID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, accountID)
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to delete account")
	}
	return requireAffected(result, "failed to delete account")
}

func requireAffected(result sql.Result, message string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, message)
	}
	if affected == 0 {
		return accountDomain.ErrAccountNotFound
	}
	return nil
}
