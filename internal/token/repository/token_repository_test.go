package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	apperrors "github.com/allisson/keyosk/internal/errors"
	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
)

var tokenColumnNames = []string{
	"id", "account_id", "domain_id", "issuer", "issued", "expires", "revoked", "refresh_hash",
	"refresh_expires", "claims", "secret_type",
}

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

func sampleToken(withRefresh bool) *tokenDomain.Token {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	accountID := uuid.New()
	domainID := uuid.New()
	token := &tokenDomain.Token{
		ID:         uuid.Must(uuid.NewV7()),
		AccountID:  &accountID,
		DomainID:   &domainID,
		Issuer:     "keyosk",
		Issued:     issued,
		Expires:    issued.Add(15 * time.Minute),
		Claims:     []byte(`{"sub":"oneill","aud":"sgc","ksk-pem":{"zatniktel":6}}`),
		SecretType: accountDomain.SecretTypeClient,
	}
	if withRefresh {
		hash := "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"
		refreshExpires := issued.Add(24 * time.Hour)
		token.RefreshHash = &hash
		token.RefreshExpires = &refreshExpires
	}
	return token
}

func postgresTokenRows(tokens ...*tokenDomain.Token) *sqlmock.Rows {
	rows := sqlmock.NewRows(tokenColumnNames)
	for _, token := range tokens {
		var accountID, domainID, refreshHash, refreshExpires any
		if token.AccountID != nil {
			accountID = token.AccountID.String()
		}
		if token.DomainID != nil {
			domainID = token.DomainID.String()
		}
		if token.RefreshHash != nil {
			refreshHash = *token.RefreshHash
		}
		if token.RefreshExpires != nil {
			refreshExpires = *token.RefreshExpires
		}
		rows.AddRow(
			token.ID.String(), accountID, domainID, token.Issuer, token.Issued, token.Expires, token.Revoked,
			refreshHash, refreshExpires, token.Claims, string(token.SecretType),
		)
	}
	return rows
}

func mysqlTokenRows(tokens ...*tokenDomain.Token) *sqlmock.Rows {
	rows := sqlmock.NewRows(tokenColumnNames)
	for _, token := range tokens {
		var accountID, domainID, refreshHash, refreshExpires any
		if token.AccountID != nil {
			accountID = binaryID(*token.AccountID)
		}
		if token.DomainID != nil {
			domainID = binaryID(*token.DomainID)
		}
		if token.RefreshHash != nil {
			refreshHash = *token.RefreshHash
		}
		if token.RefreshExpires != nil {
			refreshExpires = *token.RefreshExpires
		}
		rows.AddRow(
			binaryID(token.ID), accountID, domainID, token.Issuer, token.Issued, token.Expires, token.Revoked,
			refreshHash, refreshExpires, token.Claims, string(token.SecretType),
		)
	}
	return rows
}

func TestPostgreSQLTokenRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_WithRefresh", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLTokenRepository(db)
		token := sampleToken(true)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tokens")).
			WithArgs(token.ID, token.AccountID.String(), token.DomainID.String(), "keyosk", token.Issued,
				token.Expires, false, *token.RefreshHash, *token.RefreshExpires, token.Claims, "client").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, token))
	})

	t.Run("Success_WithoutRefresh", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLTokenRepository(db)
		token := sampleToken(false)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tokens")).
			WithArgs(token.ID, token.AccountID.String(), token.DomainID.String(), "keyosk", token.Issued,
				token.Expires, false, nil, nil, token.Claims, "client").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, token))
	})

	t.Run("Error_ForeignKey", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tokens")).
			WillReturnError(&pq.Error{Code: "23503"})

		err := repo.Create(ctx, sampleToken(false))
		assert.ErrorIs(t, err, apperrors.ErrIntegrityViolation)
	})
}

func TestPostgreSQLTokenRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLTokenRepository(db)
		token := sampleToken(true)

		mock.ExpectQuery(regexp.QuoteMeta("FROM tokens WHERE id = $1")).
			WithArgs(token.ID).
			WillReturnRows(postgresTokenRows(token))

		got, err := repo.Get(ctx, token.ID)
		require.NoError(t, err)
		assert.Equal(t, token, got)
	})

	t.Run("Success_DetachedToken", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLTokenRepository(db)
		token := sampleToken(false)
		token.AccountID = nil
		token.DomainID = nil

		mock.ExpectQuery(regexp.QuoteMeta("FROM tokens WHERE id = $1")).
			WithArgs(token.ID).
			WillReturnRows(postgresTokenRows(token))

		got, err := repo.Get(ctx, token.ID)
		require.NoError(t, err)
		assert.Nil(t, got.AccountID)
		assert.Nil(t, got.DomainID)
		assert.Nil(t, got.RefreshHash)
		assert.Nil(t, got.RefreshExpires)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM tokens WHERE id = $1")).
			WillReturnError(sql.ErrNoRows)

		got, err := repo.Get(ctx, uuid.New())
		assert.Nil(t, got)
		assert.ErrorIs(t, err, tokenDomain.ErrTokenNotFound)
	})
}

func TestPostgreSQLTokenRepository_GetByRefreshHash(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewPostgreSQLTokenRepository(db)
	token := sampleToken(true)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tokens WHERE refresh_hash = $1")).
		WithArgs(*token.RefreshHash).
		WillReturnRows(postgresTokenRows(token))
	mock.ExpectQuery(regexp.QuoteMeta("FROM tokens WHERE refresh_hash = $1")).
		WithArgs("unknown").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.GetByRefreshHash(ctx, *token.RefreshHash)
	require.NoError(t, err)
	assert.Equal(t, token.ID, got.ID)

	_, err = repo.GetByRefreshHash(ctx, "unknown")
	assert.ErrorIs(t, err, tokenDomain.ErrTokenNotFound)
}

func TestPostgreSQLTokenRepository_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLTokenRepository(db)
		tokenID := uuid.New()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE tokens SET revoked = TRUE WHERE id = $1")).
			WithArgs(tokenID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Revoke(ctx, tokenID))
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE tokens SET revoked = TRUE")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Revoke(ctx, uuid.New()), tokenDomain.ErrTokenNotFound)
	})
}

func TestPostgreSQLTokenRepository_Lists(t *testing.T) {
	ctx := context.Background()

	t.Run("ListByDomain", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLTokenRepository(db)
		first, second := sampleToken(false), sampleToken(true)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE domain_id = $1")).
			WithArgs(first.DomainID.String(), 50, 0).
			WillReturnRows(postgresTokenRows(first, second))

		tokens, err := repo.ListByDomain(ctx, *first.DomainID, 0, 50)
		require.NoError(t, err)
		assert.Equal(t, []*tokenDomain.Token{first, second}, tokens)
	})

	t.Run("ListRevoked", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLTokenRepository(db)
		token := sampleToken(false)
		token.Revoked = true
		now := token.Issued.Add(time.Minute)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE revoked = TRUE AND expires > $1")).
			WithArgs(now).
			WillReturnRows(postgresTokenRows(token))

		tokens, err := repo.ListRevoked(ctx, now)
		require.NoError(t, err)
		require.Len(t, tokens, 1)
		assert.True(t, tokens[0].Revoked)
	})

	t.Run("Error_Query", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE domain_id = $1")).
			WillReturnError(errors.New("connection reset"))

		_, err := repo.ListByDomain(ctx, uuid.New(), 0, 50)
		assert.ErrorContains(t, err, "failed to list tokens")
	})
}

func TestPostgreSQLTokenRepository_Expired(t *testing.T) {
	ctx := context.Background()
	before := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("CountExpired", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT COUNT(*) FROM tokens WHERE expires < $1 AND (refresh_expires IS NULL OR refresh_expires < $1)",
		)).
			WithArgs(before).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.CountExpired(ctx, before)
		require.NoError(t, err)
		assert.Equal(t, int64(7), count)
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tokens WHERE expires < $1")).
			WithArgs(before).
			WillReturnResult(sqlmock.NewResult(0, 3))

		deleted, err := repo.DeleteExpired(ctx, before)
		require.NoError(t, err)
		assert.Equal(t, int64(3), deleted)
	})
}

func TestMySQLTokenRepository_Create(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewMySQLTokenRepository(db)
	token := sampleToken(true)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tokens")).
		WithArgs(binaryID(token.ID), binaryID(*token.AccountID), binaryID(*token.DomainID), "keyosk",
			token.Issued, token.Expires, false, *token.RefreshHash, *token.RefreshExpires, token.Claims, "client").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Create(ctx, token))
}

func TestMySQLTokenRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLTokenRepository(db)
		token := sampleToken(true)

		mock.ExpectQuery(regexp.QuoteMeta("FROM tokens WHERE id = ?")).
			WithArgs(binaryID(token.ID)).
			WillReturnRows(mysqlTokenRows(token))

		got, err := repo.Get(ctx, token.ID)
		require.NoError(t, err)
		assert.Equal(t, token, got)
	})

	t.Run("Success_DetachedToken", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLTokenRepository(db)
		token := sampleToken(false)
		token.AccountID = nil

		mock.ExpectQuery(regexp.QuoteMeta("FROM tokens WHERE id = ?")).
			WillReturnRows(mysqlTokenRows(token))

		got, err := repo.Get(ctx, token.ID)
		require.NoError(t, err)
		assert.Nil(t, got.AccountID)
		assert.Equal(t, token.DomainID, got.DomainID)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLTokenRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM tokens WHERE id = ?")).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, tokenDomain.ErrTokenNotFound)
	})
}

func TestMySQLTokenRepository_Revoke(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewMySQLTokenRepository(db)
	tokenID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tokens SET revoked = TRUE WHERE id = ?")).
		WithArgs(binaryID(tokenID)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Revoke(ctx, tokenID))
}

func TestMySQLTokenRepository_Expired(t *testing.T) {
	ctx := context.Background()
	before := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	db, mock := newMock(t)
	repo := NewMySQLTokenRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM tokens WHERE expires < ? AND (refresh_expires IS NULL OR refresh_expires < ?)",
	)).
		WithArgs(before, before).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tokens WHERE expires < ?")).
		WithArgs(before, before).
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.CountExpired(ctx, before)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	deleted, err := repo.DeleteExpired(ctx, before)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestMySQLTokenRepository_ListByDomain(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewMySQLTokenRepository(db)
	token := sampleToken(false)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE domain_id = ?")).
		WithArgs(binaryID(*token.DomainID), 10, 20).
		WillReturnRows(mysqlTokenRows(token))

	tokens, err := repo.ListByDomain(ctx, *token.DomainID, 20, 10)
	require.NoError(t, err)
	assert.Equal(t, []*tokenDomain.Token{token}, tokens)
}

func TestTokenRepository_RevokeIfActive(t *testing.T) {
	ctx := context.Background()

	t.Run("PostgreSQL_Success", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLTokenRepository(db)
		tokenID := uuid.New()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE tokens SET revoked = TRUE WHERE id = $1 AND revoked = FALSE")).
			WithArgs(tokenID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.RevokeIfActive(ctx, tokenID))
	})

	t.Run("PostgreSQL_AlreadyRevoked", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("AND revoked = FALSE")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.RevokeIfActive(ctx, uuid.New()), tokenDomain.ErrTokenNotFound)
	})

	t.Run("MySQL_AlreadyRevoked", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLTokenRepository(db)
		tokenID := uuid.New()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE tokens SET revoked = TRUE WHERE id = ? AND revoked = FALSE")).
			WithArgs(binaryID(tokenID)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.RevokeIfActive(ctx, tokenID), tokenDomain.ErrTokenNotFound)
	})
}
