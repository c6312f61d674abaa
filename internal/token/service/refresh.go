package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/allisson/keyosk/internal/errors"
	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
)

// RefreshTokenService generates refresh tokens and the hashes they are stored under.
type RefreshTokenService interface {
	// Generate returns a new refresh token and its hash.
	Generate() (plainToken string, tokenHash string, err error)
	// Hash returns the stored representation of plainToken.
	Hash(plainToken string) string
}

// refreshTokenService implements RefreshTokenService using SHA-256 for hashing.
type refreshTokenService struct{}

// Generate creates RefreshTokenLength random bytes, base64 URL encoded without padding.
func (r *refreshTokenService) Generate() (plainToken string, tokenHash string, err error) {
	randomBytes := make([]byte, tokenDomain.RefreshTokenLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate refresh token")
	}

	plainToken = base64.RawURLEncoding.EncodeToString(randomBytes)
	return plainToken, r.Hash(plainToken), nil
}

// Hash returns the SHA-256 of plainToken as a hexadecimal string.
func (r *refreshTokenService) Hash(plainToken string) string {
	hash := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(hash[:])
}

// NewRefreshTokenService creates a new RefreshTokenService.
func NewRefreshTokenService() RefreshTokenService {
	return &refreshTokenService{}
}
