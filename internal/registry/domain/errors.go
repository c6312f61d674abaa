package domain

import (
	"github.com/allisson/keyosk/internal/errors"
)

// Registry errors.
var (
	ErrDomainNotFound     = errors.Wrap(errors.ErrNotFound, "domain not found")
	ErrAccessListNotFound = errors.Wrap(errors.ErrNotFound, "access list not found")
	ErrPermissionNotFound = errors.Wrap(errors.ErrNotFound, "permission not found")
)
