package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/keyosk/internal/database"
	apperrors "github.com/allisson/keyosk/internal/errors"
	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
)

type domainUseCase struct {
	txManager   database.TxManager
	domainRepo  DomainRepository
	catalogRepo CatalogRepository
}

// NewDomainUseCase creates a DomainUseCase.
func NewDomainUseCase(
	txManager database.TxManager,
	domainRepo DomainRepository,
	catalogRepo CatalogRepository,
) DomainUseCase {
	return &domainUseCase{
		txManager:   txManager,
		domainRepo:  domainRepo,
		catalogRepo: catalogRepo,
	}
}

func (d *domainUseCase) Create(
	ctx context.Context,
	input *registryDomain.CreateDomainInput,
) (*registryDomain.DomainDetail, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	domain := &registryDomain.Domain{ID: uuid.Must(uuid.NewV7()), Created: now, Updated: now}
	input.Apply(domain)

	detail := &registryDomain.DomainDetail{
		Domain:      domain,
		AccessLists: make([]*registryDomain.AccessList, 0, len(input.AccessLists)),
		Permissions: make([]*registryDomain.Permission, 0, len(input.Permissions)),
	}
	for _, name := range input.AccessLists {
		detail.AccessLists = append(detail.AccessLists, &registryDomain.AccessList{
			ID:       uuid.Must(uuid.NewV7()),
			DomainID: domain.ID,
			Name:     name,
		})
	}
	for _, p := range input.Permissions {
		detail.Permissions = append(detail.Permissions, &registryDomain.Permission{
			ID:       uuid.Must(uuid.NewV7()),
			DomainID: domain.ID,
			Name:     p.Name,
			BitIndex: p.BitIndex,
		})
	}
	registryDomain.SortPermissions(detail.Permissions)

	admin, err := resolveAdmin(domain.ID, input.Admin, detail.AccessLists, detail.Permissions)
	if err != nil {
		return nil, err
	}
	detail.Admin = admin

	err = d.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := d.domainRepo.Create(ctx, domain); err != nil {
			return err
		}
		for _, list := range detail.AccessLists {
			if err := d.catalogRepo.CreateAccessList(ctx, list); err != nil {
				return err
			}
		}
		for _, perm := range detail.Permissions {
			if err := d.catalogRepo.CreatePermission(ctx, perm); err != nil {
				return err
			}
		}
		if input.Admin != nil {
			return d.domainRepo.UpsertAdmin(ctx, admin)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (d *domainUseCase) Resolve(ctx context.Context, ref string) (*registryDomain.Domain, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return d.domainRepo.Get(ctx, id)
	}
	return d.domainRepo.GetByName(ctx, ref)
}

func (d *domainUseCase) GetDetail(ctx context.Context, ref string) (*registryDomain.DomainDetail, error) {
	domain, err := d.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	lists, err := d.catalogRepo.ListAccessLists(ctx, domain.ID)
	if err != nil {
		return nil, err
	}
	permissions, err := d.ListPermissions(ctx, domain.ID)
	if err != nil {
		return nil, err
	}
	admin, err := d.domainRepo.GetAdmin(ctx, domain.ID)
	if err != nil {
		return nil, err
	}

	return &registryDomain.DomainDetail{
		Domain:      domain,
		AccessLists: lists,
		Permissions: permissions,
		Admin:       admin,
	}, nil
}

func (d *domainUseCase) List(ctx context.Context, offset, limit int) ([]*registryDomain.Domain, error) {
	return d.domainRepo.List(ctx, offset, limit)
}

func (d *domainUseCase) Update(
	ctx context.Context,
	ref string,
	settings *registryDomain.DomainSettings,
) (*registryDomain.Domain, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	domain, err := d.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	settings.Apply(domain)
	domain.Updated = time.Now().UTC()

	if err := d.domainRepo.Update(ctx, domain); err != nil {
		return nil, err
	}
	return domain, nil
}

func (d *domainUseCase) Delete(ctx context.Context, ref string) error {
	domain, err := d.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	return d.domainRepo.Delete(ctx, domain.ID)
}

func (d *domainUseCase) AddAccessList(ctx context.Context, ref string, name string) (*registryDomain.AccessList, error) {
	if err := registryDomain.ValidateName(name); err != nil {
		return nil, err
	}

	domain, err := d.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	list := &registryDomain.AccessList{ID: uuid.Must(uuid.NewV7()), DomainID: domain.ID, Name: name}
	if err := d.catalogRepo.CreateAccessList(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *domainUseCase) ListAccessLists(ctx context.Context, domainID uuid.UUID) ([]*registryDomain.AccessList, error) {
	return d.catalogRepo.ListAccessLists(ctx, domainID)
}

func (d *domainUseCase) AddPermission(
	ctx context.Context,
	ref string,
	input registryDomain.PermissionInput,
) (*registryDomain.Permission, error) {
	if err := registryDomain.ValidateName(input.Name); err != nil {
		return nil, err
	}
	if input.BitIndex < 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidBitIndex, "bit index must not be negative")
	}

	domain, err := d.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	var perm *registryDomain.Permission
	err = d.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := d.catalogRepo.ListPermissions(ctx, domain.ID)
		if err != nil {
			return err
		}

		set := toInputs(existing)
		set = append(set, input)
		if err := registryDomain.ValidatePermissionSet(set); err != nil {
			return err
		}

		perm = &registryDomain.Permission{
			ID:       uuid.Must(uuid.NewV7()),
			DomainID: domain.ID,
			Name:     input.Name,
			BitIndex: input.BitIndex,
		}
		return d.catalogRepo.CreatePermission(ctx, perm)
	})
	if err != nil {
		return nil, err
	}
	return perm, nil
}

func (d *domainUseCase) ReplacePermissions(
	ctx context.Context,
	ref string,
	permissions []registryDomain.PermissionInput,
) ([]*registryDomain.Permission, error) {
	for _, p := range permissions {
		if err := registryDomain.ValidateName(p.Name); err != nil {
			return nil, err
		}
	}
	if err := registryDomain.ValidatePermissionSet(permissions); err != nil {
		return nil, err
	}

	domain, err := d.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	var result []*registryDomain.Permission
	err = d.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := d.catalogRepo.ListPermissions(ctx, domain.ID)
		if err != nil {
			return err
		}

		byName := make(map[string]*registryDomain.Permission, len(existing))
		for _, perm := range existing {
			byName[perm.Name] = perm
		}
		wanted := make(map[string]struct{}, len(permissions))
		for _, p := range permissions {
			wanted[p.Name] = struct{}{}
		}

		for _, perm := range existing {
			if _, ok := wanted[perm.Name]; !ok {
				if err := d.catalogRepo.DeletePermission(ctx, perm.ID); err != nil {
					return err
				}
			}
		}

		if err := d.catalogRepo.ParkBitIndexes(ctx, domain.ID); err != nil {
			return err
		}

		result = make([]*registryDomain.Permission, 0, len(permissions))
		for _, p := range permissions {
			if perm, ok := byName[p.Name]; ok {
				if err := d.catalogRepo.SetBitIndex(ctx, perm.ID, p.BitIndex); err != nil {
					return err
				}
				perm.BitIndex = p.BitIndex
				result = append(result, perm)
				continue
			}

			perm := &registryDomain.Permission{
				ID:       uuid.Must(uuid.NewV7()),
				DomainID: domain.ID,
				Name:     p.Name,
				BitIndex: p.BitIndex,
			}
			if err := d.catalogRepo.CreatePermission(ctx, perm); err != nil {
				return err
			}
			result = append(result, perm)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return registryDomain.SortPermissions(result), nil
}

func (d *domainUseCase) ListPermissions(ctx context.Context, domainID uuid.UUID) ([]*registryDomain.Permission, error) {
	permissions, err := d.catalogRepo.ListPermissions(ctx, domainID)
	if err != nil {
		return nil, err
	}
	return registryDomain.SortPermissions(permissions), nil
}

func (d *domainUseCase) SetAdmin(
	ctx context.Context,
	ref string,
	input *registryDomain.DomainAdminInput,
) (*registryDomain.DomainAdmin, error) {
	domain, err := d.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	lists, err := d.catalogRepo.ListAccessLists(ctx, domain.ID)
	if err != nil {
		return nil, err
	}
	permissions, err := d.catalogRepo.ListPermissions(ctx, domain.ID)
	if err != nil {
		return nil, err
	}

	admin, err := resolveAdmin(domain.ID, input, lists, permissions)
	if err != nil {
		return nil, err
	}
	if err := d.domainRepo.UpsertAdmin(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (d *domainUseCase) GetAdmin(ctx context.Context, domainID uuid.UUID) (*registryDomain.DomainAdmin, error) {
	return d.domainRepo.GetAdmin(ctx, domainID)
}

func toInputs(permissions []*registryDomain.Permission) []registryDomain.PermissionInput {
	inputs := make([]registryDomain.PermissionInput, 0, len(permissions)+1)
	for _, p := range permissions {
		inputs = append(inputs, registryDomain.PermissionInput{Name: p.Name, BitIndex: p.BitIndex})
	}
	return inputs
}

// resolveAdmin maps admin settings given by name onto ids. Permissions without an
// access list are meaningless, so an empty access list yields empty settings.
func resolveAdmin(
	domainID uuid.UUID,
	input *registryDomain.DomainAdminInput,
	lists []*registryDomain.AccessList,
	permissions []*registryDomain.Permission,
) (*registryDomain.DomainAdmin, error) {
	admin := &registryDomain.DomainAdmin{DomainID: domainID}
	if input == nil || input.AccessList == "" {
		return admin, nil
	}

	for _, list := range lists {
		if list.Name == input.AccessList {
			id := list.ID
			admin.AccessListID = &id
		}
	}
	if admin.AccessListID == nil {
		return nil, apperrors.Wrap(
			apperrors.ErrInvalidInput,
			fmt.Sprintf("admin access list %q does not exist", input.AccessList),
		)
	}

	byName := make(map[string]uuid.UUID, len(permissions))
	for _, p := range permissions {
		byName[p.Name] = p.ID
	}

	refs := []struct {
		name string
		dest **uuid.UUID
	}{
		{input.DomainRead, &admin.DomainRead},
		{input.DomainUpdate, &admin.DomainUpdate},
		{input.AccountCreate, &admin.AccountCreate},
		{input.AccountRead, &admin.AccountRead},
		{input.AccountDelete, &admin.AccountDelete},
	}
	for _, ref := range refs {
		if ref.name == "" {
			continue
		}
		id, ok := byName[ref.name]
		if !ok {
			return nil, apperrors.Wrap(
				apperrors.ErrInvalidInput,
				fmt.Sprintf("admin permission %q does not exist", ref.name),
			)
		}
		*ref.dest = &id
	}
	return admin, nil
}
