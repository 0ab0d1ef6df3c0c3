package security

import (
	"errors"
	"fmt"
	"userhub/internal/common"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidDigest signals a stored digest that bcrypt cannot parse, as
// opposed to a well-formed digest that simply does not match.
var ErrInvalidDigest = errors.New("invalid password digest format")

const bcryptCost = bcrypt.DefaultCost

// HashPassword returns a salted bcrypt digest of password. Hashing the same
// password twice yields different digests; both verify.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(digest), nil
}

// CheckPassword returns nil iff password matches digest. A mismatch reports
// common.ErrAuthenticationFailed; a digest bcrypt cannot parse reports
// ErrInvalidDigest.
func CheckPassword(password, digest string) error {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return common.ErrAuthenticationFailed
	}
	return fmt.Errorf("%w: %v", ErrInvalidDigest, err)
}
