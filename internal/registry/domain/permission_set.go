package domain

import (
	"fmt"
	"sort"

	"github.com/allisson/keyosk/internal/errors"
)

// MaxPermissions is the largest permission set a domain may hold: masks are uint64.
const MaxPermissions = 64

// PermissionInput describes one permission of a batch.
type PermissionInput struct {
	Name     string `json:"name"     yaml:"name"`
	BitIndex int    `json:"bitindex" yaml:"bitindex"`
}

// ValidatePermissionSet checks a full permission set of a domain: names are unique and
// the bit indices are exactly {0, 1, ..., N-1}. It returns ErrDuplicateName or
// ErrInvalidBitIndex.
func ValidatePermissionSet(permissions []PermissionInput) error {
	if len(permissions) > MaxPermissions {
		return errors.Wrap(
			errors.ErrInvalidBitIndex,
			fmt.Sprintf("a domain holds at most %d permissions", MaxPermissions),
		)
	}

	names := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		if _, ok := names[p.Name]; ok {
			return errors.Wrap(errors.ErrDuplicateName, fmt.Sprintf("permission %q", p.Name))
		}
		names[p.Name] = struct{}{}
	}

	indices := make([]int, 0, len(permissions))
	for _, p := range permissions {
		indices = append(indices, p.BitIndex)
	}
	sort.Ints(indices)
	for want, got := range indices {
		if got != want {
			return errors.Wrap(
				errors.ErrInvalidBitIndex,
				fmt.Sprintf("bit indices must be 0..%d without gaps or duplicates", len(permissions)-1),
			)
		}
	}
	return nil
}

// ValidateAccessListNames checks that access list names are unique.
func ValidateAccessListNames(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			return errors.Wrap(errors.ErrDuplicateName, fmt.Sprintf("access list %q", name))
		}
		seen[name] = struct{}{}
	}
	return nil
}

// SortPermissions orders permissions by BitIndex in place and returns them.
func SortPermissions(permissions []*Permission) []*Permission {
	sort.Slice(permissions, func(i, j int) bool {
		return permissions[i].BitIndex < permissions[j].BitIndex
	})
	return permissions
}
