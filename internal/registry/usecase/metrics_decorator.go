package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/keyosk/internal/metrics"
	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
)

const component = "registry"

type domainUseCaseWithMetrics struct {
	next    DomainUseCase
	metrics metrics.BusinessMetrics
}

// NewDomainUseCaseWithMetrics wraps a DomainUseCase with operation metrics.
func NewDomainUseCaseWithMetrics(useCase DomainUseCase, m metrics.BusinessMetrics) DomainUseCase {
	return &domainUseCaseWithMetrics{next: useCase, metrics: m}
}

func (d *domainUseCaseWithMetrics) Create(
	ctx context.Context,
	input *registryDomain.CreateDomainInput,
) (*registryDomain.DomainDetail, error) {
	start := time.Now()
	detail, err := d.next.Create(ctx, input)
	metrics.Observe(ctx, d.metrics, component, "domain_create", start, err)
	return detail, err
}

// Resolve runs on every authenticated request and is left out of the operation metrics.
func (d *domainUseCaseWithMetrics) Resolve(ctx context.Context, ref string) (*registryDomain.Domain, error) {
	return d.next.Resolve(ctx, ref)
}

func (d *domainUseCaseWithMetrics) GetDetail(ctx context.Context, ref string) (*registryDomain.DomainDetail, error) {
	start := time.Now()
	detail, err := d.next.GetDetail(ctx, ref)
	metrics.Observe(ctx, d.metrics, component, "domain_get", start, err)
	return detail, err
}

func (d *domainUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*registryDomain.Domain, error) {
	start := time.Now()
	domains, err := d.next.List(ctx, offset, limit)
	metrics.Observe(ctx, d.metrics, component, "domain_list", start, err)
	return domains, err
}

func (d *domainUseCaseWithMetrics) Update(
	ctx context.Context,
	ref string,
	settings *registryDomain.DomainSettings,
) (*registryDomain.Domain, error) {
	start := time.Now()
	domain, err := d.next.Update(ctx, ref, settings)
	metrics.Observe(ctx, d.metrics, component, "domain_update", start, err)
	return domain, err
}

func (d *domainUseCaseWithMetrics) Delete(ctx context.Context, ref string) error {
	start := time.Now()
	err := d.next.Delete(ctx, ref)
	metrics.Observe(ctx, d.metrics, component, "domain_delete", start, err)
	return err
}

func (d *domainUseCaseWithMetrics) AddAccessList(
	ctx context.Context,
	ref string,
	name string,
) (*registryDomain.AccessList, error) {
	start := time.Now()
	list, err := d.next.AddAccessList(ctx, ref, name)
	metrics.Observe(ctx, d.metrics, component, "access_list_add", start, err)
	return list, err
}

func (d *domainUseCaseWithMetrics) ListAccessLists(
	ctx context.Context,
	domainID uuid.UUID,
) ([]*registryDomain.AccessList, error) {
	return d.next.ListAccessLists(ctx, domainID)
}

func (d *domainUseCaseWithMetrics) AddPermission(
	ctx context.Context,
	ref string,
	input registryDomain.PermissionInput,
) (*registryDomain.Permission, error) {
	start := time.Now()
	perm, err := d.next.AddPermission(ctx, ref, input)
	metrics.Observe(ctx, d.metrics, component, "permission_add", start, err)
	return perm, err
}

func (d *domainUseCaseWithMetrics) ReplacePermissions(
	ctx context.Context,
	ref string,
	permissions []registryDomain.PermissionInput,
) ([]*registryDomain.Permission, error) {
	start := time.Now()
	result, err := d.next.ReplacePermissions(ctx, ref, permissions)
	metrics.Observe(ctx, d.metrics, component, "permission_replace", start, err)
	return result, err
}

func (d *domainUseCaseWithMetrics) ListPermissions(
	ctx context.Context,
	domainID uuid.UUID,
) ([]*registryDomain.Permission, error) {
	return d.next.ListPermissions(ctx, domainID)
}

func (d *domainUseCaseWithMetrics) SetAdmin(
	ctx context.Context,
	ref string,
	input *registryDomain.DomainAdminInput,
) (*registryDomain.DomainAdmin, error) {
	start := time.Now()
	admin, err := d.next.SetAdmin(ctx, ref, input)
	metrics.Observe(ctx, d.metrics, component, "domain_admin_set", start, err)
	return admin, err
}

func (d *domainUseCaseWithMetrics) GetAdmin(ctx context.Context, domainID uuid.UUID) (*registryDomain.DomainAdmin, error) {
	return d.next.GetAdmin(ctx, domainID)
}
