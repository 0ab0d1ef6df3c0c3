package service

import (
	"context"
	"errors"
	"fmt"
	"unicode"
	"userhub/internal/app/cache"
	"userhub/internal/common"
	"userhub/internal/common/security"
	"userhub/internal/domain/model"
	"userhub/internal/domain/repository"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

var validate = validator.New()

type AuthService struct {
	users       repository.UserRepository
	issuer      *security.TokenIssuer
	sessions    *cache.SessionStore
	sessionSalt []byte
	log         *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	issuer *security.TokenIssuer,
	sessions *cache.SessionStore,
	sessionSalt []byte,
) *AuthService {
	return &AuthService{
		users:       users,
		issuer:      issuer,
		sessions:    sessions,
		sessionSalt: sessionSalt,
		log:         zap.L().Named("auth"),
	}
}

type SignupRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Password  string `json:"password" validate:"required,min=4"`
}

// LoginResponse flattens the public profile and the token fields into one
// object, as the login endpoint has always returned them.
type LoginResponse struct {
	model.UserRead
	AccessToken    string `json:"access_token"`
	TokenType      string `json:"token_type"`
	ExpirationTime int    `json:"expiration_time"`
}

// Login authenticates against the authoritative store (never the lookup
// cache), issues a bearer token and writes the derived session secret to the
// cache with a TTL matching the token.
//
// A user that does not exist and a wrong password fail identically, so the
// endpoint cannot be used to enumerate usernames.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	if username == "" || password == "" {
		return nil, common.ErrBadRequest
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if err := security.CheckPassword(password, user.HashedPassword); err != nil {
		if errors.Is(err, common.ErrAuthenticationFailed) {
			return nil, common.ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("login verify: %w", err)
	}

	token, err := s.issuer.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("login issue token: %w", err)
	}

	// Policy: the token is the source of truth for authentication. If the
	// session-secret write fails the login still succeeds; the failure is
	// logged, not propagated.
	secret := security.DeriveSessionKey(password, s.sessionSalt)
	if err := s.sessions.Put(ctx, user.UID, secret, s.issuer.TTL()); err != nil {
		s.log.Error("session secret write failed, continuing with issued token",
			zap.Int64("uid", user.UID), zap.Error(err))
	}

	return &LoginResponse{
		UserRead:       user.Read(),
		AccessToken:    token,
		TokenType:      "bearer",
		ExpirationTime: int(s.issuer.TTL().Seconds()),
	}, nil
}

// Signup creates a user. The username/email pre-checks are advisory; the
// store's unique constraints are authoritative and a concurrent duplicate
// insert surfaces as the same conflict error.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*model.UserRead, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	// Usernames appear as path segments (/users/single/{username}).
	if !slug.IsSlug(req.Username) {
		return nil, fmt.Errorf("%w: username must be URL-safe", common.ErrValidation)
	}

	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return nil, common.ErrDuplicateUsername
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("signup username check: %w", err)
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, common.ErrDuplicateEmail
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("signup email check: %w", err)
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("signup hash password: %w", err)
	}

	user, err := s.users.Create(ctx, model.UserCreate{
		Username:       req.Username,
		Email:          req.Email,
		FirstName:      titleCase(req.FirstName),
		LastName:       titleCase(req.LastName),
		HashedPassword: hashed,
		IsActive:       true,
	})
	if err != nil {
		return nil, err
	}

	read := user.Read()
	return &read, nil
}

// titleCase capitalizes the first letter of every word and lowercases the
// rest, preserving whitespace.
func titleCase(s string) string {
	out := []rune(s)
	prevLetter := false
	for i, r := range out {
		if unicode.IsLetter(r) {
			if prevLetter {
				out[i] = unicode.ToLower(r)
			} else {
				out[i] = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
	}
	return string(out)
}
