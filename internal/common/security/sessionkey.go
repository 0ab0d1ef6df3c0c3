package security

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"
)

const (
	sessionKeyIterations = 4096
	sessionKeyLength     = 32
)

// DeriveSessionKey derives the per-login session secret from the submitted
// password and the fixed application-wide salt. The derivation is
// deterministic: the same password and salt always yield the same key, so a
// fresh login reproduces (and overwrites) the cached secret.
func DeriveSessionKey(password string, salt []byte) string {
	key := pbkdf2.Key([]byte(password), salt, sessionKeyIterations, sessionKeyLength, sha256.New)
	return base64.URLEncoding.EncodeToString(key)
}
