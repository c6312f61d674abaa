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

// PostgreSQLTokenRepository implements token persistence for PostgreSQL.
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLTokenRepository creates a new PostgreSQLTokenRepository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}

func (p *PostgreSQLTokenRepository) scan(row rowScanner) (*tokenDomain.Token, error) {
	var id uuid.UUID
	var accountID, domainID uuid.NullUUID
	var r tokenRow
	if err := row.Scan(r.dest(&id, &accountID, &domainID)...); err != nil {
		return nil, err
	}
	token := r.token()
	token.ID = id
	token.AccountID = nullUUIDPtr(accountID)
	token.DomainID = nullUUIDPtr(domainID)
	return token, nil
}

func (p *PostgreSQLTokenRepository) list(
	ctx context.Context,
	message string,
	query string,
	args ...any,
) ([]*tokenDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, message)
	}
	defer func() { _ = rows.Close() }()

	tokens := make([]*tokenDomain.Token, 0)
	for rows.Next() {
		token, err := p.scan(rows)
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
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *tokenDomain.Token) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tokens (` + tokenColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		nullUUID(token.AccountID),
		nullUUID(token.DomainID),
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
func (p *PostgreSQLTokenRepository) Get(ctx context.Context, tokenID uuid.UUID) (*tokenDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE id = $1`

	token, err := p.scan(querier.QueryRowContext(ctx, query, tokenID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tokenDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token")
	}
	return token, nil
}

// GetByRefreshHash retrieves the token holding the refresh token with the given hash.
func (p *PostgreSQLTokenRepository) GetByRefreshHash(
	ctx context.Context,
	refreshHash string,
) (*tokenDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE refresh_hash = $1`

	token, err := p.scan(querier.QueryRowContext(ctx, query, refreshHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tokenDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token by refresh hash")
	}
	return token, nil
}

// Revoke marks a token revoked.
func (p *PostgreSQLTokenRepository) Revoke(ctx context.Context, tokenID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `UPDATE tokens SET revoked = TRUE WHERE id = $1`, tokenID)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke token")
	}
	return requireAffected(result, "failed to revoke token")
}

// RevokeIfActive revokes a token that is not revoked yet. It returns ErrTokenNotFound
// when the token is missing or already revoked, which makes it usable as a claim on a
// refresh token under concurrency.
func (p *PostgreSQLTokenRepository) RevokeIfActive(ctx context.Context, tokenID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`UPDATE tokens SET revoked = TRUE WHERE id = $1 AND revoked = FALSE`,
		tokenID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke token")
	}
	return requireAffected(result, "failed to revoke token")
}

// ListByDomain returns the tokens issued for a domain, newest first.
func (p *PostgreSQLTokenRepository) ListByDomain(
	ctx context.Context,
	domainID uuid.UUID,
	offset, limit int,
) ([]*tokenDomain.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens
			  WHERE domain_id = $1
			  ORDER BY issued DESC, id DESC
			  LIMIT $2 OFFSET $3`
	return p.list(ctx, "failed to list tokens", query, domainID, limit, offset)
}

// ListRevoked returns revoked tokens that have not expired at now, soonest expiry first.
func (p *PostgreSQLTokenRepository) ListRevoked(ctx context.Context, now time.Time) ([]*tokenDomain.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens
			  WHERE revoked = TRUE AND expires > $1
			  ORDER BY expires`
	return p.list(ctx, "failed to list revoked tokens", query, now)
}

// CountExpired counts tokens whose access and refresh lifetimes ended before before.
func (p *PostgreSQLTokenRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM tokens WHERE ` + fmt.Sprintf(expiredCondition, "$1")

	var count int64
	if err := querier.QueryRowContext(ctx, query, before).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired tokens")
	}
	return count, nil
}

// DeleteExpired deletes tokens whose access and refresh lifetimes ended before before.
func (p *PostgreSQLTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM tokens WHERE ` + fmt.Sprintf(expiredCondition, "$1")

	result, err := querier.ExecContext(ctx, query, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}
	return deleted, nil
}
