// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. Use cases return these (or errors wrapping them)
// and handlers map them to HTTP status codes.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors shared by every bounded context.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated caller lacks the required permission.
	ErrForbidden = errors.New("forbidden")
)

// Storage and registry errors. They wrap the standard errors above so callers that only
// care about the broad category can keep matching on ErrConflict or ErrInvalidInput.
var (
	// ErrDuplicateName indicates a uniqueness violation on a name-like field: account
	// username, domain name or audience, access list or permission name within a domain.
	ErrDuplicateName = Wrap(ErrConflict, "duplicate name")

	// ErrInvalidBitIndex indicates a permission set whose bit indices do not form the
	// contiguous sequence 0..N-1 for its domain.
	ErrInvalidBitIndex = Wrap(ErrInvalidInput, "invalid bit index")

	// ErrIntegrityViolation indicates a referential or uniqueness failure reported by the
	// storage engine that was not caught by validation.
	ErrIntegrityViolation = Wrap(ErrConflict, "integrity violation")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
