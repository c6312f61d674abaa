// Package repository persists issued tokens for PostgreSQL and MySQL. Claims are stored
// as the JSON frozen at issuance and never rewritten.
package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	apperrors "github.com/allisson/keyosk/internal/errors"
	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
)

const tokenColumns = `id, account_id, domain_id, issuer, issued, expires, revoked, refresh_hash,
	refresh_expires, claims, secret_type`

// expiredCondition matches tokens whose access and refresh lifetimes both ended before
// the bound parameter.
const expiredCondition = `expires < %[1]s AND (refresh_expires IS NULL OR refresh_expires < %[1]s)`

type rowScanner interface {
	Scan(dest ...any) error
}

// tokenRow holds the dialect independent columns of a token row. Ids are decoded by
// each repository.
type tokenRow struct {
	issuer         string
	issued         time.Time
	expires        time.Time
	revoked        bool
	refreshHash    sql.NullString
	refreshExpires sql.NullTime
	claims         []byte
	secretType     string
}

func (r *tokenRow) dest(id, accountID, domainID any) []any {
	return []any{
		id,
		accountID,
		domainID,
		&r.issuer,
		&r.issued,
		&r.expires,
		&r.revoked,
		&r.refreshHash,
		&r.refreshExpires,
		&r.claims,
		&r.secretType,
	}
}

func (r *tokenRow) token() *tokenDomain.Token {
	token := &tokenDomain.Token{
		Issuer:     r.issuer,
		Issued:     r.issued,
		Expires:    r.expires,
		Revoked:    r.revoked,
		Claims:     r.claims,
		SecretType: accountDomain.SecretType(r.secretType),
	}
	if r.refreshHash.Valid {
		hash := r.refreshHash.String
		token.RefreshHash = &hash
	}
	if r.refreshExpires.Valid {
		expires := r.refreshExpires.Time
		token.RefreshExpires = &expires
	}
	return token
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func nullUUIDPtr(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}

// binaryID encodes a uuid for a MySQL BINARY(16) column.
func binaryID(id uuid.UUID) []byte {
	b, _ := id.MarshalBinary()
	return b
}

// nullableBinaryID encodes an optional uuid for a nullable MySQL BINARY(16) column.
func nullableBinaryID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return binaryID(*id)
}

// parseNullableBinaryID decodes a nullable MySQL BINARY(16) column.
func parseNullableBinaryID(b []byte) (*uuid.UUID, error) {
	if b == nil {
		return nil, nil
	}
	id, err := uuid.FromBytes(b)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal id")
	}
	return &id, nil
}

func requireAffected(result sql.Result, message string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, message)
	}
	if affected == 0 {
		return tokenDomain.ErrTokenNotFound
	}
	return nil
}
