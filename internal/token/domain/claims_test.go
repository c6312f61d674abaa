package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaims_Has(t *testing.T) {
	// stargate: own 0, fire 1, reload 2, repair 3; zatniktel holds fire and reload.
	claims := &Claims{Permissions: map[string]uint64{"zatniktel": 6}}

	assert.False(t, claims.Has("zatniktel", 0, 4))
	assert.True(t, claims.Has("zatniktel", 1, 4))
	assert.True(t, claims.Has("zatniktel", 2, 4))
	assert.False(t, claims.Has("zatniktel", 3, 4))
	assert.False(t, claims.Has("zatniktel", 4, 4))
	assert.False(t, claims.Has("zatniktel", -1, 4))
	assert.False(t, claims.Has("stargate", 1, 4))
}

func TestClaims_JSON(t *testing.T) {
	t.Run("PermissionsUnderKskPem", func(t *testing.T) {
		claims := &Claims{
			ID:          uuid.NewString(),
			Subject:     "oneill",
			Audience:    "sgc",
			Issuer:      "keyosk",
			ExpiresAt:   1700000900,
			IssuedAt:    1700000000,
			Permissions: map[string]uint64{"zatniktel": 6},
		}

		data, err := json.Marshal(claims)
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.Equal(t, "sgc", raw["aud"])
		assert.Equal(t, map[string]any{"zatniktel": float64(6)}, raw[PermissionsClaim])
	})

	t.Run("NoGrantsOmitsKskPem", func(t *testing.T) {
		data, err := json.Marshal(&Claims{Subject: "oneill"})
		require.NoError(t, err)
		assert.NotContains(t, string(data), PermissionsClaim)
	})
}

func TestToken_State(t *testing.T) {
	now := time.Now()
	token := &Token{Expires: now.Add(time.Minute)}

	assert.Equal(t, StateActive, token.State(now))
	assert.Equal(t, StateExpired, token.State(now.Add(time.Minute)))

	token.Revoked = true
	assert.Equal(t, StateRevoked, token.State(now))
}

func TestToken_RefreshUsable(t *testing.T) {
	now := time.Now()
	hash := "abc"
	later := now.Add(time.Hour)

	assert.False(t, (&Token{}).RefreshUsable(now))
	assert.True(t, (&Token{RefreshHash: &hash, RefreshExpires: &later}).RefreshUsable(now))
	assert.False(t, (&Token{RefreshHash: &hash, RefreshExpires: &later}).RefreshUsable(later))
	assert.False(t, (&Token{Revoked: true, RefreshHash: &hash, RefreshExpires: &later}).RefreshUsable(now))
}
