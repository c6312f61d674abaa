package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/keyosk/internal/database"
	apperrors "github.com/allisson/keyosk/internal/errors"
	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
)

// MySQLTokenRepository implements token persistence for MySQL.
type MySQLTokenRepository struct {
	db *sql.DB
}

// NewMySQLTokenRepository creates a new MySQLTokenRepository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}

func (m *MySQLTokenRepository) scan(row rowScanner) (*tokenDomain.Token, error) {
	var id, accountID, domainID []byte
	var r tokenRow
	if err := row.Scan(r.dest(&id, &accountID, &domainID)...); err != nil {
		return nil, err
	}
	token := r.token()
	if err := token.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal token id")
	}
	var err error
	if token.AccountID, err = parseNullableBinaryID(accountID); err != nil {
		return nil, err
	}
	if token.DomainID, err = parseNullableBinaryID(domainID); err != nil {
		return nil, err
	}
	return token, nil
}

func (m *MySQLTokenRepository) list(
	ctx context.Context,
	message string,
	query string,
	args ...any,
) ([]*tokenDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, message)
	}
	defer func() { _ = rows.Close() }()

	tokens := make([]*tokenDomain.Token, 0)
	for rows.Next() {
		token, err := m.scan(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan token")
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate tokens")
	}
	return tokens, nil
}

// Create inserts an issued token.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *tokenDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tokens (` + tokenColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		binaryID(token.ID),
		nullableBinaryID(token.AccountID),
		nullableBinaryID(token.DomainID),
		token.Issuer,
		token.Issued,
		token.Expires,
		token.Revoked,
		nullString(token.RefreshHash),
		nullTime(token.RefreshExpires),
		token.Claims,
		string(token.SecretType),
	)
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to create token")
	}
	return nil
}

// Get retrieves a token by id.
func (m *MySQLTokenRepository) Get(ctx context.Context, tokenID uuid.UUID) (*tokenDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE id = ?`

	token, err := m.scan(querier.QueryRowContext(ctx, query, binaryID(tokenID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tokenDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token")
	}
	return token, nil
}

// GetByRefreshHash retrieves the token holding the refresh token with the given hash.
func (m *MySQLTokenRepository) GetByRefreshHash(
	ctx context.Context,
	refreshHash string,
) (*tokenDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE refresh_hash = ?`

	token, err := m.scan(querier.QueryRowContext(ctx, query, refreshHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tokenDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token by refresh hash")
	}
	return token, nil
}

// Revoke marks a token revoked. MySQL reports changed rather than matched rows, so an
// already revoked token is indistinguishable from a missing one and the count is not
// checked.
func (m *MySQLTokenRepository) Revoke(ctx context.Context, tokenID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	if _, err := querier.ExecContext(ctx, `UPDATE tokens SET revoked = TRUE WHERE id = ?`, binaryID(tokenID)); err != nil {
		return apperrors.Wrap(err, "failed to revoke token")
	}
	return nil
}

// RevokeIfActive revokes a token that is not revoked yet. It returns ErrTokenNotFound
// when the token is missing or already revoked, which makes it usable as a claim on a
// refresh token under concurrency.
func (m *MySQLTokenRepository) RevokeIfActive(ctx context.Context, tokenID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`UPDATE tokens SET revoked = TRUE WHERE id = ? AND revoked = FALSE`,
		binaryID(tokenID),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke token")
	}
	return requireAffected(result, "failed to revoke token")
}

// ListByDomain returns the tokens issued for a domain, newest first.
func (m *MySQLTokenRepository) ListByDomain(
	ctx context.Context,
	domainID uuid.UUID,
	offset, limit int,
) ([]*tokenDomain.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens
			  WHERE domain_id = ?
			  ORDER BY issued DESC, id DESC
			  LIMIT ? OFFSET ?`
	return m.list(ctx, "failed to list tokens", query, binaryID(domainID), limit, offset)
}

// ListRevoked returns revoked tokens that have not expired at now, soonest expiry first.
func (m *MySQLTokenRepository) ListRevoked(ctx context.Context, now time.Time) ([]*tokenDomain.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens
			  WHERE revoked = TRUE AND expires > ?
			  ORDER BY expires`
	return m.list(ctx, "failed to list revoked tokens", query, now)
}

// CountExpired counts tokens whose access and refresh lifetimes ended before before.
func (m *MySQLTokenRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM tokens WHERE ` + fmt.Sprintf(expiredCondition, "?")

	var count int64
	if err := querier.QueryRowContext(ctx, query, before, before).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired tokens")
	}
	return count, nil
}

// DeleteExpired deletes tokens whose access and refresh lifetimes ended before before.
func (m *MySQLTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM tokens WHERE ` + fmt.Sprintf(expiredCondition, "?")

	result, err := querier.ExecContext(ctx, query, before, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}
	return deleted, nil
}
