package security

import (
	"errors"
	"fmt"
	"time"
	"userhub/internal/common"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer creates and verifies the stateless HS256 bearer tokens used as
// the primary auth artifact. Validity is determined solely by signature and
// expiry; there is no server-side revocation list.
type TokenIssuer struct {
	key  []byte
	ttl  time.Duration
	auth *jwtauth.JWTAuth
}

func NewTokenIssuer(key []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		key:  key,
		ttl:  ttl,
		auth: jwtauth.New("HS256", key, nil),
	}
}

// Auth exposes the verifier used by the router's jwtauth middleware. It
// shares the issuer's signing key.
func (i *TokenIssuer) Auth() *jwtauth.JWTAuth {
	return i.auth
}

func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token with subject and an absolute expiry of now + TTL.
func (i *TokenIssuer) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the subject. Expired tokens
// report common.ErrExpiredToken; anything else that fails to parse or
// validate reports common.ErrInvalidSignature.
func (i *TokenIssuer) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrExpiredToken
		}
		return "", common.ErrInvalidSignature
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidSignature
	}
	return claims.Subject, nil
}
