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

// MySQLDomainRepository implements domain and domain admin persistence for MySQL.
type MySQLDomainRepository struct {
	db *sql.DB
}

// NewMySQLDomainRepository creates a new MySQLDomainRepository.
func NewMySQLDomainRepository(db *sql.DB) *MySQLDomainRepository {
	return &MySQLDomainRepository{db: db}
}

func (m *MySQLDomainRepository) scan(row rowScanner) (*registryDomain.Domain, error) {
	var id []byte
	d, err := scanDomain(row, &id)
	if err != nil {
		return nil, err
	}
	if err := d.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal domain id")
	}
	return d, nil
}

// Create inserts a domain. A taken name or audience surfaces as ErrDuplicateName.
func (m *MySQLDomainRepository) Create(ctx context.Context, d *registryDomain.Domain) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO domains (` + domainColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := querier.ExecContext(ctx, query, domainArgs(d, binaryID(d.ID))...); err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to create domain")
	}
	return nil
}

// Update overwrites the settings of a domain.
func (m *MySQLDomainRepository) Update(ctx context.Context, d *registryDomain.Domain) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE domains
			  SET name = ?, audience = ?, title = ?, description = ?, contact = ?, enabled = ?,
				  enable_client_set_auth = ?, enable_server_set_auth = ?, enable_refresh = ?,
				  lifespan_access = ?, lifespan_refresh = ?, created = ?, updated = ?
			  WHERE id = ?`

	args := domainArgs(d, nil)[1:]
	args = append(args, binaryID(d.ID))

	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to update domain")
	}
	return requireAffected(result, registryDomain.ErrDomainNotFound, "failed to update domain")
}

// Get retrieves a domain by id.
func (m *MySQLDomainRepository) Get(ctx context.Context, domainID uuid.UUID) (*registryDomain.Domain, error) {
	return m.getBy(ctx, `id = ?`, binaryID(domainID))
}

// GetByName retrieves a domain by its unique name.
func (m *MySQLDomainRepository) GetByName(ctx context.Context, name string) (*registryDomain.Domain, error) {
	return m.getBy(ctx, `name = ?`, name)
}

func (m *MySQLDomainRepository) getBy(ctx context.Context, where string, arg any) (*registryDomain.Domain, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + domainColumns + ` FROM domains WHERE ` + where

	d, err := m.scan(querier.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, registryDomain.ErrDomainNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get domain")
	}
	return d, nil
}

// List returns domains ordered by name.
func (m *MySQLDomainRepository) List(ctx context.Context, offset, limit int) ([]*registryDomain.Domain, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + domainColumns + ` FROM domains ORDER BY name LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list domains")
	}
	defer func() { _ = rows.Close() }()

	domains := make([]*registryDomain.Domain, 0)
	for rows.Next() {
		d, err := m.scan(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan domain")
		}
		domains = append(domains, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate domains")
	}
	return domains, nil
}

// Delete removes a domain and everything it owns. Tokens keep a NULL domain.
func (m *MySQLDomainRepository) Delete(ctx context.Context, domainID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM domains WHERE id = ?`, binaryID(domainID))
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to delete domain")
	}
	return requireAffected(result, registryDomain.ErrDomainNotFound, "failed to delete domain")
}

// UpsertAdmin stores the admin settings of a domain, replacing previous ones.
func (m *MySQLDomainRepository) UpsertAdmin(ctx context.Context, admin *registryDomain.DomainAdmin) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO domain_admins
				(domain_id, access_list_id, domain_read_id, domain_update_id, account_create_id,
				 account_read_id, account_delete_id)
			  VALUES (?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
				  access_list_id = VALUES(access_list_id),
				  domain_read_id = VALUES(domain_read_id),
				  domain_update_id = VALUES(domain_update_id),
				  account_create_id = VALUES(account_create_id),
				  account_read_id = VALUES(account_read_id),
				  account_delete_id = VALUES(account_delete_id)`

	_, err := querier.ExecContext(
		ctx,
		query,
		binaryID(admin.DomainID),
		nullableBinaryID(admin.AccessListID),
		nullableBinaryID(admin.DomainRead),
		nullableBinaryID(admin.DomainUpdate),
		nullableBinaryID(admin.AccountCreate),
		nullableBinaryID(admin.AccountRead),
		nullableBinaryID(admin.AccountDelete),
	)
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to upsert domain admin")
	}
	return nil
}

// GetAdmin returns the admin settings of a domain, or empty settings when none exist.
func (m *MySQLDomainRepository) GetAdmin(
	ctx context.Context,
	domainID uuid.UUID,
) (*registryDomain.DomainAdmin, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT access_list_id, domain_read_id, domain_update_id, account_create_id,
				account_read_id, account_delete_id
			  FROM domain_admins WHERE domain_id = ?`

	raw := make([][]byte, 6)
	err := querier.QueryRowContext(ctx, query, binaryID(domainID)).Scan(
		&raw[0], &raw[1], &raw[2], &raw[3], &raw[4], &raw[5],
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &registryDomain.DomainAdmin{DomainID: domainID}, nil
		}
		return nil, apperrors.Wrap(err, "failed to get domain admin")
	}

	ids := make([]*uuid.UUID, len(raw))
	for i, b := range raw {
		if ids[i], err = parseNullableBinaryID(b); err != nil {
			return nil, err
		}
	}

	return &registryDomain.DomainAdmin{
		DomainID:      domainID,
		AccessListID:  ids[0],
		DomainRead:    ids[1],
		DomainUpdate:  ids[2],
		AccountCreate: ids[3],
		AccountRead:   ids[4],
		AccountDelete: ids[5],
	}, nil
}
