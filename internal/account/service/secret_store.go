package service

import (
	"crypto/rand"
	"encoding/base64"
	"sync"

	"github.com/allisson/go-pwdhash"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	apperrors "github.com/allisson/keyosk/internal/errors"
)

type secretStore struct {
	hasher *pwdhash.PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

// NewSecretStore creates a SecretStore hashing with Argon2id under the moderate policy.
func NewSecretStore() SecretStore {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		panic(err)
	}
	return &secretStore{hasher: hasher}
}

func (s *secretStore) Verify(
	secretType accountDomain.SecretType,
	account *accountDomain.Account,
	candidate string,
) bool {
	if account == nil || candidate == "" {
		return false
	}
	hash := account.SecretHash(secretType)
	if hash == "" {
		return false
	}
	ok, err := s.hasher.Verify([]byte(candidate), hash)
	return err == nil && ok
}

func (s *secretStore) VerifyDummy(candidate string) {
	s.dummyOnce.Do(func() {
		random, err := randomString(accountDomain.ServerSecretLength)
		if err != nil {
			return
		}
		s.dummyHash, _ = s.hasher.Hash([]byte(random))
	})
	if s.dummyHash == "" {
		return
	}
	_, _ = s.hasher.Verify([]byte(candidate), s.dummyHash)
}

func (s *secretStore) UpdateClientSecret(account *accountDomain.Account, value string) error {
	if value == "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "client secret cannot be empty")
	}
	hash, err := s.hasher.Hash([]byte(value))
	if err != nil {
		return apperrors.Wrap(err, "failed to hash client secret")
	}
	account.ClientSecretHash = hash
	return nil
}

func (s *secretStore) RegenerateServerSecret(account *accountDomain.Account, length int) (string, error) {
	if length <= 0 {
		length = accountDomain.ServerSecretLength
	}
	plain, err := randomString(length)
	if err != nil {
		return "", err
	}
	hash, err := s.hasher.Hash([]byte(plain))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash server secret")
	}
	account.ServerSecretHash = hash
	return plain, nil
}

// randomString returns n random bytes encoded as unpadded URL-safe base64.
func randomString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", apperrors.Wrap(err, "failed to read random bytes")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
