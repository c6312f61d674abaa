package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	apperrors "github.com/allisson/keyosk/internal/errors"
)

func TestSecretStore_ClientSecret(t *testing.T) {
	store := NewSecretStore()
	account := &accountDomain.Account{Username: "oneill"}

	require.NoError(t, store.UpdateClientSecret(account, "kree-sha"))
	assert.NotEmpty(t, account.ClientSecretHash)
	assert.NotEqual(t, "kree-sha", account.ClientSecretHash)

	assert.True(t, store.Verify(accountDomain.SecretTypeClient, account, "kree-sha"))
	assert.False(t, store.Verify(accountDomain.SecretTypeClient, account, "wrong"))
	assert.False(t, store.Verify(accountDomain.SecretTypeServer, account, "kree-sha"))
}

func TestSecretStore_UpdateClientSecret_Empty(t *testing.T) {
	store := NewSecretStore()
	err := store.UpdateClientSecret(&accountDomain.Account{}, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSecretStore_RegenerateServerSecret(t *testing.T) {
	store := NewSecretStore()
	account := &accountDomain.Account{Username: "carter"}

	first, err := store.RegenerateServerSecret(account, accountDomain.ServerSecretLength)
	require.NoError(t, err)
	raw, err := base64.RawURLEncoding.DecodeString(first)
	require.NoError(t, err)
	assert.Len(t, raw, accountDomain.ServerSecretLength)
	assert.True(t, store.Verify(accountDomain.SecretTypeServer, account, first))

	second, err := store.RegenerateServerSecret(account, 0)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.False(t, store.Verify(accountDomain.SecretTypeServer, account, first))
	assert.True(t, store.Verify(accountDomain.SecretTypeServer, account, second))
}

func TestSecretStore_VerifyNeverFails(t *testing.T) {
	store := NewSecretStore()

	assert.False(t, store.Verify(accountDomain.SecretTypeClient, nil, "x"))
	assert.False(t, store.Verify(accountDomain.SecretTypeClient, &accountDomain.Account{}, "x"))
	assert.False(t, store.Verify(
		accountDomain.SecretTypeClient,
		&accountDomain.Account{ClientSecretHash: "not-a-hash"},
		"x",
	))
	assert.NotPanics(t, func() { store.VerifyDummy("anything") })
}
