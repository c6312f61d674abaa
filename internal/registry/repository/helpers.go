// Package repository persists domains, access lists, permissions and domain admin
// settings for PostgreSQL and MySQL. Lifespans are stored as whole seconds.
package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/keyosk/internal/errors"
	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
)

const domainColumns = `id, name, audience, title, description, contact, enabled, enable_client_set_auth,
	enable_server_set_auth, enable_refresh, lifespan_access, lifespan_refresh, created, updated`

type rowScanner interface {
	Scan(dest ...any) error
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

func domainArgs(d *registryDomain.Domain, id any) []any {
	return []any{
		id,
		d.Name,
		d.Audience,
		d.Title,
		d.Description,
		d.Contact,
		d.Enabled,
		d.EnableClientSetAuth,
		d.EnableServerSetAuth,
		d.EnableRefresh,
		seconds(d.LifespanAccess),
		seconds(d.LifespanRefresh),
		d.Created,
		d.Updated,
	}
}

// scanDomain reads a domain row. id receives the raw id column so each dialect can
// decode it.
func scanDomain(row rowScanner, id any) (*registryDomain.Domain, error) {
	var d registryDomain.Domain
	var access, refresh int64
	if err := row.Scan(
		id,
		&d.Name,
		&d.Audience,
		&d.Title,
		&d.Description,
		&d.Contact,
		&d.Enabled,
		&d.EnableClientSetAuth,
		&d.EnableServerSetAuth,
		&d.EnableRefresh,
		&access,
		&refresh,
		&d.Created,
		&d.Updated,
	); err != nil {
		return nil, err
	}
	d.LifespanAccess = time.Duration(access) * time.Second
	d.LifespanRefresh = time.Duration(refresh) * time.Second
	return &d, nil
}

func requireAffected(result sql.Result, notFound error, message string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, message)
	}
	if affected == 0 {
		return notFound
	}
	return nil
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

func nullUUIDPtr(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}
