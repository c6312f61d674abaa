package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	"github.com/allisson/keyosk/internal/database"
	apperrors "github.com/allisson/keyosk/internal/errors"
)

// MySQLAccountRepository implements account persistence for MySQL.
type MySQLAccountRepository struct {
	db *sql.DB
}

// NewMySQLAccountRepository creates a new MySQLAccountRepository.
func NewMySQLAccountRepository(db *sql.DB) *MySQLAccountRepository {
	return &MySQLAccountRepository{db: db}
}

func (m *MySQLAccountRepository) scan(row rowScanner) (*accountDomain.Account, error) {
	var account accountDomain.Account
	var id, extras []byte
	if err := row.Scan(
		&id,
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
	if err := account.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal account id")
	}
	if err := unmarshalExtras(extras, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Create inserts a new account. A taken username surfaces as ErrDuplicateName.
func (m *MySQLAccountRepository) Create(ctx context.Context, account *accountDomain.Account) error {
	querier := database.GetTx(ctx, m.db)

	id, err := account.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal account id")
	}
	extras, err := marshalExtras(account.Extras)
	if err != nil {
		return err
	}

	query := `INSERT INTO accounts (` + accountColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLAccountRepository) Update(ctx context.Context, account *accountDomain.Account) error {
	querier := database.GetTx(ctx, m.db)

	id, err := account.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal account id")
	}
	extras, err := marshalExtras(account.Extras)
	if err != nil {
		return err
	}

	query := `UPDATE accounts
			  SET username = ?,
				  client_secret_hash = ?,
				  server_secret_hash = ?,
				  enabled = ?,
				  extras = ?,
				  updated = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		account.Username,
		account.ClientSecretHash,
		account.ServerSecretHash,
		account.Enabled,
		extras,
		account.Updated,
		id,
	)
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to update account")
	}
	return requireAffected(result, "failed to update account")
}

// Get retrieves an account by id.
func (m *MySQLAccountRepository) Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := accountID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal account id")
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`

	account, err := m.scan(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accountDomain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account")
	}
	return account, nil
}

// GetByUsername retrieves an account by its unique username.
func (m *MySQLAccountRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*accountDomain.Account, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = ?`

	account, err := m.scan(querier.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accountDomain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account by username")
	}
	return account, nil
}

// GetInDomain retrieves an account by id when it holds at least one grant in the domain.
func (m *MySQLAccountRepository) GetInDomain(
	ctx context.Context,
	accountID, domainID uuid.UUID,
) (*accountDomain.Account, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := accountID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal account id")
	}
	domain, err := domainID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal domain id")
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ? AND ` + mysqlAssignedTo

	account, err := m.scan(querier.QueryRowContext(ctx, query, id, domain))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accountDomain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account")
	}
	return account, nil
}

// List returns accounts ordered by username.
func (m *MySQLAccountRepository) List(ctx context.Context, offset, limit int) ([]*accountDomain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY username LIMIT ? OFFSET ?`
	return m.list(ctx, query, limit, offset)
}

// ListInDomain returns the accounts holding grants in the domain, ordered by username.
func (m *MySQLAccountRepository) ListInDomain(
	ctx context.Context,
	domainID uuid.UUID,
	offset, limit int,
) ([]*accountDomain.Account, error) {
	domain, err := domainID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal domain id")
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + mysqlAssignedTo +
		` ORDER BY username LIMIT ? OFFSET ?`
	return m.list(ctx, query, domain, limit, offset)
}

func (m *MySQLAccountRepository) list(ctx context.Context, query string, args ...any) ([]*accountDomain.Account, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list accounts")
	}
	defer func() { _ = rows.Close() }()

	accounts := make([]*accountDomain.Account, 0)
	for rows.Next() {
		account, err := m.scan(rows)
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

const mysqlAssignedTo = `EXISTS (SELECT 1 FROM acl_grants g JOIN access_lists l ON l.id = g.access_list_id ` +
	`WHERE g.account_id = accounts.id AND l.domain_id = ?)`

// Delete removes an account. Grants cascade, tokens keep their row with a NULL account.
func (m *MySQLAccountRepository) Delete(ctx context.Context, accountID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := accountID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal account id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to delete account")
	}
	return requireAffected(result, "failed to delete account")
}
