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

// PostgreSQLDomainRepository implements domain and domain admin persistence for PostgreSQL.
type PostgreSQLDomainRepository struct {
	db *sql.DB
}

// NewPostgreSQLDomainRepository creates a new PostgreSQLDomainRepository.
func NewPostgreSQLDomainRepository(db *sql.DB) *PostgreSQLDomainRepository {
	return &PostgreSQLDomainRepository{db: db}
}

func (p *PostgreSQLDomainRepository) scan(row rowScanner) (*registryDomain.Domain, error) {
	var id uuid.UUID
	d, err := scanDomain(row, &id)
	if err != nil {
		return nil, err
	}
	d.ID = id
	return d, nil
}

// Create inserts a domain. A taken name or audience surfaces as ErrDuplicateName.
func (p *PostgreSQLDomainRepository) Create(ctx context.Context, d *registryDomain.Domain) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO domains (` + domainColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	if _, err := querier.ExecContext(ctx, query, domainArgs(d, d.ID)...); err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to create domain")
	}
	return nil
}

// Update overwrites the settings of a domain.
func (p *PostgreSQLDomainRepository) Update(ctx context.Context, d *registryDomain.Domain) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE domains
			  SET name = $2, audience = $3, title = $4, description = $5, contact = $6, enabled = $7,
				  enable_client_set_auth = $8, enable_server_set_auth = $9, enable_refresh = $10,
				  lifespan_access = $11, lifespan_refresh = $12, created = $13, updated = $14
			  WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, domainArgs(d, d.ID)...)
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to update domain")
	}
	return requireAffected(result, registryDomain.ErrDomainNotFound, "failed to update domain")
}

// Get retrieves a domain by id.
func (p *PostgreSQLDomainRepository) Get(ctx context.Context, domainID uuid.UUID) (*registryDomain.Domain, error) {
	return p.getBy(ctx, `id = $1`, domainID)
}

// GetByName retrieves a domain by its unique name.
func (p *PostgreSQLDomainRepository) GetByName(ctx context.Context, name string) (*registryDomain.Domain, error) {
	return p.getBy(ctx, `name = $1`, name)
}

func (p *PostgreSQLDomainRepository) getBy(ctx context.Context, where string, arg any) (*registryDomain.Domain, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + domainColumns + ` FROM domains WHERE ` + where

	d, err := p.scan(querier.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, registryDomain.ErrDomainNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get domain")
	}
	return d, nil
}

// List returns domains ordered by name.
func (p *PostgreSQLDomainRepository) List(ctx context.Context, offset, limit int) ([]*registryDomain.Domain, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + domainColumns + ` FROM domains ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list domains")
	}
	defer func() { _ = rows.Close() }()

	domains := make([]*registryDomain.Domain, 0)
	for rows.Next() {
		d, err := p.scan(rows)
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

// Delete removes a domain with its access lists, permissions, grants and admin settings.
// Tokens issued for it keep their row with a NULL domain.
func (p *PostgreSQLDomainRepository) Delete(ctx context.Context, domainID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM domains WHERE id = $1`, domainID)
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to delete domain")
	}
	return requireAffected(result, registryDomain.ErrDomainNotFound, "failed to delete domain")
}

// UpsertAdmin stores the admin settings of a domain, replacing previous ones.
func (p *PostgreSQLDomainRepository) UpsertAdmin(ctx context.Context, admin *registryDomain.DomainAdmin) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO domain_admins
				(domain_id, access_list_id, domain_read_id, domain_update_id, account_create_id,
				 account_read_id, account_delete_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (domain_id) DO UPDATE
			  SET access_list_id = EXCLUDED.access_list_id,
				  domain_read_id = EXCLUDED.domain_read_id,
				  domain_update_id = EXCLUDED.domain_update_id,
				  account_create_id = EXCLUDED.account_create_id,
				  account_read_id = EXCLUDED.account_read_id,
				  account_delete_id = EXCLUDED.account_delete_id`

	_, err := querier.ExecContext(
		ctx,
		query,
		admin.DomainID,
		admin.AccessListID,
		admin.DomainRead,
		admin.DomainUpdate,
		admin.AccountCreate,
		admin.AccountRead,
		admin.AccountDelete,
	)
	if err != nil {
		return apperrors.Wrap(database.TranslateError(err), "failed to upsert domain admin")
	}
	return nil
}

// GetAdmin returns the admin settings of a domain, or empty settings when none exist.
func (p *PostgreSQLDomainRepository) GetAdmin(
	ctx context.Context,
	domainID uuid.UUID,
) (*registryDomain.DomainAdmin, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT access_list_id, domain_read_id, domain_update_id, account_create_id,
				account_read_id, account_delete_id
			  FROM domain_admins WHERE domain_id = $1`

	var accessList, domainRead, domainUpdate, accountCreate, accountRead, accountDelete uuid.NullUUID
	err := querier.QueryRowContext(ctx, query, domainID).Scan(
		&accessList, &domainRead, &domainUpdate, &accountCreate, &accountRead, &accountDelete,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &registryDomain.DomainAdmin{DomainID: domainID}, nil
		}
		return nil, apperrors.Wrap(err, "failed to get domain admin")
	}

	return &registryDomain.DomainAdmin{
		DomainID:      domainID,
		AccessListID:  nullUUIDPtr(accessList),
		DomainRead:    nullUUIDPtr(domainRead),
		DomainUpdate:  nullUUIDPtr(domainUpdate),
		AccountCreate: nullUUIDPtr(accountCreate),
		AccountRead:   nullUUIDPtr(accountRead),
		AccountDelete: nullUUIDPtr(accountDelete),
	}, nil
}
