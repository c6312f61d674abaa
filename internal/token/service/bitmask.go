// Package service holds the token issuance engine: permission mask encoding, claim
// assembly, signing and refresh token generation.
package service

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	aclDomain "github.com/allisson/keyosk/internal/acl/domain"
	apperrors "github.com/allisson/keyosk/internal/errors"
	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
)

// BuildMasks encodes grants into one mask per access list. Permissions, sorted by bit
// index, define the bit positions: position 0 is the most significant of the N bits.
// Access lists without grants are absent from the result, and a nil map is returned
// when there are no grants at all. Grants referencing a permission outside the set
// are ignored.
func BuildMasks(
	permissions []*registryDomain.Permission,
	grants []*aclDomain.ResolvedGrant,
) (map[string]uint64, error) {
	if len(permissions) > registryDomain.MaxPermissions {
		return nil, apperrors.Wrap(
			apperrors.ErrInvalidBitIndex,
			fmt.Sprintf("a domain holds at most %d permissions", registryDomain.MaxPermissions),
		)
	}

	sorted := make([]*registryDomain.Permission, len(permissions))
	copy(sorted, permissions)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].BitIndex < sorted[j].BitIndex })

	positions := make(map[uuid.UUID]int, len(sorted))
	for i, permission := range sorted {
		positions[permission.ID] = i
	}

	vectors := make(map[string][]bool)
	for _, grant := range grants {
		position, ok := positions[grant.PermissionID]
		if !ok {
			continue
		}
		vector, ok := vectors[grant.AccessList]
		if !ok {
			vector = make([]bool, len(sorted))
			vectors[grant.AccessList] = vector
		}
		vector[position] = true
	}

	if len(vectors) == 0 {
		return nil, nil
	}

	masks := make(map[string]uint64, len(vectors))
	for accessList, vector := range vectors {
		masks[accessList] = encode(vector)
	}
	return masks, nil
}

// encode reads vector as a binary number, first element first.
func encode(vector []bool) uint64 {
	var mask uint64
	for _, set := range vector {
		mask <<= 1
		if set {
			mask |= 1
		}
	}
	return mask
}
