// Package service implements the account secret store: hashing, verification and
// generation of the client-set and server-set secrets.
package service

import (
	accountDomain "github.com/allisson/keyosk/internal/account/domain"
)

// SecretStore hashes and verifies the two secrets of an account. It never touches
// storage; callers persist the account afterwards.
type SecretStore interface {
	// Verify reports whether candidate matches the stored hash of secretType. A missing
	// hash, a malformed hash or a mismatch all return false.
	Verify(secretType accountDomain.SecretType, account *accountDomain.Account, candidate string) bool

	// VerifyDummy burns the same work as Verify against a throwaway hash. Used when the
	// account does not exist so both failure paths take comparable time.
	VerifyDummy(candidate string)

	// UpdateClientSecret rehashes value into the account's client secret.
	UpdateClientSecret(account *accountDomain.Account, value string) error

	// RegenerateServerSecret replaces the server secret with length random bytes and
	// returns the plaintext. It is not retrievable afterwards.
	RegenerateServerSecret(account *accountDomain.Account, length int) (string, error)
}
