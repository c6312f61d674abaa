package domain

import (
	"time"

	validation "github.com/jellydator/validation"

	"github.com/allisson/keyosk/internal/errors"
	customValidation "github.com/allisson/keyosk/internal/validation"
)

// DomainSettings are the editable fields of a domain.
type DomainSettings struct {
	Name                string        `json:"name"                   yaml:"name"`
	Audience            string        `json:"audience"               yaml:"audience"`
	Title               string        `json:"title"                  yaml:"title"`
	Description         string        `json:"description"            yaml:"description"`
	Contact             string        `json:"contact"                yaml:"contact"`
	Enabled             bool          `json:"enabled"                yaml:"enabled"`
	EnableClientSetAuth bool          `json:"enable_client_set_auth" yaml:"enable_client_set_auth"`
	EnableServerSetAuth bool          `json:"enable_server_set_auth" yaml:"enable_server_set_auth"`
	EnableRefresh       bool          `json:"enable_refresh"         yaml:"enable_refresh"`
	LifespanAccess      time.Duration `json:"lifespan_access"        yaml:"lifespan_access"`
	LifespanRefresh     time.Duration `json:"lifespan_refresh"       yaml:"lifespan_refresh"`
}

// Validate checks the settings against the naming rules.
func (s *DomainSettings) Validate() error {
	err := validation.ValidateStruct(s,
		validation.Field(&s.Name, validation.Required, customValidation.FriendlyName, validation.Length(1, 64)),
		validation.Field(&s.Audience, validation.Required, customValidation.Audience),
		validation.Field(&s.Title, validation.Required, customValidation.Title),
		validation.Field(&s.Description, validation.Length(0, 1024)),
		validation.Field(&s.Contact, validation.Length(0, 255)),
		validation.Field(&s.LifespanAccess, validation.Required, validation.Min(time.Second)),
		validation.Field(&s.LifespanRefresh,
			validation.When(s.EnableRefresh, validation.Required, validation.Min(time.Second)),
		),
	)
	return customValidation.WrapValidationError(err)
}

// Apply copies the settings onto d.
func (s *DomainSettings) Apply(d *Domain) {
	d.Name = s.Name
	d.Audience = s.Audience
	d.Title = s.Title
	d.Description = s.Description
	d.Contact = s.Contact
	d.Enabled = s.Enabled
	d.EnableClientSetAuth = s.EnableClientSetAuth
	d.EnableServerSetAuth = s.EnableServerSetAuth
	d.EnableRefresh = s.EnableRefresh
	d.LifespanAccess = s.LifespanAccess
	d.LifespanRefresh = s.LifespanRefresh
}

// CreateDomainInput is a domain with its initial access lists and permissions. The
// whole input is validated before anything is written.
type CreateDomainInput struct {
	DomainSettings `yaml:",inline"`
	AccessLists    []string          `json:"access_lists" yaml:"access_lists"`
	Permissions    []PermissionInput `json:"permissions"  yaml:"permissions"`
	Admin          *DomainAdminInput `json:"admin"        yaml:"admin"`
}

// Validate checks settings, access list names and the permission set.
func (in *CreateDomainInput) Validate() error {
	if err := in.DomainSettings.Validate(); err != nil {
		return err
	}
	for _, name := range in.AccessLists {
		if err := ValidateName(name); err != nil {
			return err
		}
	}
	if err := ValidateAccessListNames(in.AccessLists); err != nil {
		return err
	}
	for _, p := range in.Permissions {
		if err := ValidateName(p.Name); err != nil {
			return err
		}
	}
	return ValidatePermissionSet(in.Permissions)
}

// ValidateName checks an access list or permission name.
func ValidateName(name string) error {
	err := validation.Validate(name, validation.Required, customValidation.FriendlyName, validation.Length(1, 64))
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "name '"+name+"': "+err.Error())
	}
	return nil
}
