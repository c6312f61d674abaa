package service

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
)

func newTestEdDSASigner(t *testing.T, issuer string) Signer {
	t.Helper()
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := NewEdDSASigner(privateKey, issuer)
	require.NoError(t, err)
	return signer
}

func sampleClaims(issuer string, expires time.Time) *tokenDomain.Claims {
	return &tokenDomain.Claims{
		ID:          uuid.NewString(),
		Subject:     "oneill",
		Audience:    "sgc",
		Issuer:      issuer,
		ExpiresAt:   expires.Unix(),
		IssuedAt:    time.Now().Unix(),
		Permissions: map[string]uint64{"zatniktel": 6},
	}
}

func TestJWTSigner_EdDSA(t *testing.T) {
	signer := newTestEdDSASigner(t, "keyosk")

	t.Run("Success_RoundTrip", func(t *testing.T) {
		claims := sampleClaims("keyosk", time.Now().Add(time.Minute))

		token, err := signer.Sign(claims)
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)

		verified, err := signer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, claims, verified)
	})

	t.Run("Success_PublicKey", func(t *testing.T) {
		publicKey, ok := signer.PublicKeyPEM()
		assert.True(t, ok)
		assert.Contains(t, string(publicKey), "BEGIN PUBLIC KEY")
		assert.Equal(t, AlgorithmEdDSA, signer.Algorithm())
	})

	t.Run("Error_Expired", func(t *testing.T) {
		token, err := signer.Sign(sampleClaims("keyosk", time.Now().Add(-time.Minute)))
		require.NoError(t, err)

		claims, err := signer.Verify(token)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, tokenDomain.ErrTokenExpired)
	})

	t.Run("Error_Tampered", func(t *testing.T) {
		token, err := signer.Sign(sampleClaims("keyosk", time.Now().Add(time.Minute)))
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		forged, err := newTestEdDSASigner(t, "keyosk").Sign(sampleClaims("keyosk", time.Now().Add(time.Hour)))
		require.NoError(t, err)
		parts[2] = strings.Split(forged, ".")[2]

		_, err = signer.Verify(strings.Join(parts, "."))
		assert.ErrorIs(t, err, tokenDomain.ErrInvalidSignature)
	})

	t.Run("Error_WrongIssuer", func(t *testing.T) {
		token, err := signer.Sign(sampleClaims("someone-else", time.Now().Add(time.Minute)))
		require.NoError(t, err)

		_, err = signer.Verify(token)
		assert.ErrorIs(t, err, tokenDomain.ErrInvalidSignature)
	})

	t.Run("Error_OtherAlgorithm", func(t *testing.T) {
		hmac, err := NewHMACSigner([]byte("shared-secret"), "keyosk")
		require.NoError(t, err)
		token, err := hmac.Sign(sampleClaims("keyosk", time.Now().Add(time.Minute)))
		require.NoError(t, err)

		_, err = signer.Verify(token)
		assert.ErrorIs(t, err, tokenDomain.ErrInvalidSignature)
	})

	t.Run("Error_Garbage", func(t *testing.T) {
		_, err := signer.Verify("not-a-token")
		assert.ErrorIs(t, err, tokenDomain.ErrInvalidSignature)
	})
}

func TestJWTSigner_HS256(t *testing.T) {
	signer, err := NewHMACSigner([]byte("shared-secret"), "keyosk")
	require.NoError(t, err)

	t.Run("Success_RoundTrip", func(t *testing.T) {
		claims := sampleClaims("keyosk", time.Now().Add(time.Minute))
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		verified, err := signer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, claims, verified)
	})

	t.Run("Success_NoPublicKey", func(t *testing.T) {
		publicKey, ok := signer.PublicKeyPEM()
		assert.False(t, ok)
		assert.Nil(t, publicKey)
		assert.Equal(t, AlgorithmHS256, signer.Algorithm())
	})

	t.Run("Error_WrongSecret", func(t *testing.T) {
		other, err := NewHMACSigner([]byte("other-secret"), "keyosk")
		require.NoError(t, err)
		token, err := other.Sign(sampleClaims("keyosk", time.Now().Add(time.Minute)))
		require.NoError(t, err)

		_, err = signer.Verify(token)
		assert.ErrorIs(t, err, tokenDomain.ErrInvalidSignature)
	})

	t.Run("Error_EmptySecret", func(t *testing.T) {
		_, err := NewHMACSigner(nil, "keyosk")
		assert.Error(t, err)
	})
}

func TestNewEdDSASigner_InvalidKey(t *testing.T) {
	_, err := NewEdDSASigner(ed25519.PrivateKey("short"), "keyosk")
	assert.Error(t, err)
}
