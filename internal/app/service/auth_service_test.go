package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
	"userhub/internal/app/cache"
	"userhub/internal/common"
	"userhub/internal/common/security"
	"userhub/internal/domain/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testJWTKey      = []byte("this-is-a-test-secret-with-32-bytes!")
	testSessionSalt = []byte("test-session-salt")
	testTokenTTL    = 30 * time.Minute
)

// mockUserRepository implements repository.UserRepository with overridable
// func fields.
type mockUserRepository struct {
	createFunc         func(ctx context.Context, data model.UserCreate) (*model.User, error)
	readFunc           func(ctx context.Context, uid int64) (*model.User, error)
	readManyFunc       func(ctx context.Context, offset, limit int) ([]model.User, error)
	updateFunc         func(ctx context.Context, uid int64, data model.UserUpdate) (*model.User, error)
	deleteFunc         func(ctx context.Context, uid int64) error
	findByUsernameFunc func(ctx context.Context, username string) (*model.User, error)
	findByEmailFunc    func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, data model.UserCreate) (*model.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, data)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) Read(ctx context.Context, uid int64) (*model.User, error) {
	if m.readFunc != nil {
		return m.readFunc(ctx, uid)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) ReadMany(ctx context.Context, offset, limit int) ([]model.User, error) {
	if m.readManyFunc != nil {
		return m.readManyFunc(ctx, offset, limit)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) Update(ctx context.Context, uid int64, data model.UserUpdate) (*model.User, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, uid, data)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) Delete(ctx context.Context, uid int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, uid)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return nil, common.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, common.ErrNotFound
}

func newTestAuth(t *testing.T, repo *mockUserRepository) (*AuthService, *security.TokenIssuer, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	issuer := security.NewTokenIssuer(testJWTKey, testTokenTTL)
	svc := NewAuthService(repo, issuer, cache.NewSessionStore(rdb), testSessionSalt)
	return svc, issuer, mr
}

func bobRow(t *testing.T, password string) *model.User {
	t.Helper()
	hashed, err := security.HashPassword(password)
	require.NoError(t, err)
	return &model.User{
		UID:            7,
		Username:       "bob",
		Email:          "bob@x.com",
		FirstName:      "Bob",
		LastName:       "B",
		IsActive:       true,
		HashedPassword: hashed,
	}
}

func TestLogin_Success(t *testing.T) {
	user := bobRow(t, "pw123")
	repo := &mockUserRepository{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			if username == "bob" {
				return user, nil
			}
			return nil, common.ErrNotFound
		},
	}
	svc, issuer, mr := newTestAuth(t, repo)

	resp, err := svc.Login(context.Background(), "bob", "pw123")
	require.NoError(t, err)

	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, int(testTokenTTL.Seconds()), resp.ExpirationTime)
	assert.Equal(t, "bob", resp.Username)
	assert.Equal(t, "bob@x.com", resp.Email)

	// The issued token verifies and maps back to the username.
	subject, err := issuer.Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "bob", subject)

	// Session secret lands in the cache under the user id, TTL = token TTL.
	key := strconv.FormatInt(user.UID, 10)
	got, getErr := mr.Get(key)
	require.NoError(t, getErr)
	assert.Equal(t, security.DeriveSessionKey("pw123", testSessionSalt), got)
	assert.Equal(t, testTokenTTL, mr.TTL(key))
}

func TestLogin_FailureShapeDoesNotLeak(t *testing.T) {
	user := bobRow(t, "pw123")
	repo := &mockUserRepository{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			if username == "bob" {
				return user, nil
			}
			return nil, common.ErrNotFound
		},
	}
	svc, _, _ := newTestAuth(t, repo)
	ctx := context.Background()

	_, wrongPassword := svc.Login(ctx, "bob", "nope")
	_, unknownUser := svc.Login(ctx, "nobody", "pw123")

	// Wrong password and nonexistent user fail identically.
	assert.ErrorIs(t, wrongPassword, common.ErrAuthenticationFailed)
	assert.ErrorIs(t, unknownUser, common.ErrAuthenticationFailed)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLogin_OverwritesPreviousSession(t *testing.T) {
	user := bobRow(t, "pw123")
	repo := &mockUserRepository{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return user, nil
		},
	}
	svc, _, mr := newTestAuth(t, repo)
	ctx := context.Background()

	key := strconv.FormatInt(user.UID, 10)
	require.NoError(t, mr.Set(key, "stale-secret"))

	_, err := svc.Login(ctx, "bob", "pw123")
	require.NoError(t, err)

	got, getErr := mr.Get(key)
	require.NoError(t, getErr)
	assert.NotEqual(t, "stale-secret", got)
}

func TestLogin_CacheDownIsNonFatal(t *testing.T) {
	user := bobRow(t, "pw123")
	repo := &mockUserRepository{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return user, nil
		},
	}
	svc, issuer, mr := newTestAuth(t, repo)

	mr.Close()

	resp, err := svc.Login(context.Background(), "bob", "pw123")
	require.NoError(t, err)

	subject, err := issuer.Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "bob", subject)
}

func TestLogin_EmptyCredentials(t *testing.T) {
	svc, _, _ := newTestAuth(t, &mockUserRepository{})

	_, err := svc.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestSignup_Success(t *testing.T) {
	var created model.UserCreate
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, data model.UserCreate) (*model.User, error) {
			created = data
			return &model.User{
				UID:            1,
				Username:       data.Username,
				Email:          data.Email,
				FirstName:      data.FirstName,
				LastName:       data.LastName,
				IsActive:       data.IsActive,
				HashedPassword: data.HashedPassword,
			}, nil
		},
	}
	svc, _, _ := newTestAuth(t, repo)

	user, err := svc.Signup(context.Background(), SignupRequest{
		Username:  "bob",
		Email:     "bob@x.com",
		FirstName: "bob",
		LastName:  "b",
		Password:  "pw123",
	})
	require.NoError(t, err)

	// Name fields are title-cased on the way in.
	assert.Equal(t, "Bob", user.FirstName)
	assert.Equal(t, "B", user.LastName)
	assert.True(t, user.IsActive)

	// The stored digest is a hash of the submitted password, not the
	// password itself.
	assert.NotEqual(t, "pw123", created.HashedPassword)
	assert.NoError(t, security.CheckPassword("pw123", created.HashedPassword))
}

func TestSignup_DuplicateUsername(t *testing.T) {
	createCalled := false
	repo := &mockUserRepository{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{UID: 1, Username: username}, nil
		},
		createFunc: func(ctx context.Context, data model.UserCreate) (*model.User, error) {
			createCalled = true
			return nil, nil
		},
	}
	svc, _, _ := newTestAuth(t, repo)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Username:  "bob",
		Email:     "other@x.com",
		FirstName: "bob",
		LastName:  "b",
		Password:  "pw123",
	})
	assert.ErrorIs(t, err, common.ErrDuplicateUsername)
	assert.Equal(t, "username", common.ConflictField(err))
	assert.False(t, createCalled)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{UID: 2, Email: email}, nil
		},
	}
	svc, _, _ := newTestAuth(t, repo)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Username:  "carol",
		Email:     "bob@x.com",
		FirstName: "carol",
		LastName:  "c",
		Password:  "pw123",
	})
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
	assert.Equal(t, "email", common.ConflictField(err))
}

func TestSignup_InsertRaceSurfacesConflict(t *testing.T) {
	// Pre-checks pass but a concurrent signup wins the insert; the unique
	// constraint maps to the same conflict error.
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, data model.UserCreate) (*model.User, error) {
			return nil, common.ErrDuplicateUsername
		},
	}
	svc, _, _ := newTestAuth(t, repo)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Username:  "bob",
		Email:     "bob@x.com",
		FirstName: "bob",
		LastName:  "b",
		Password:  "pw123",
	})
	assert.ErrorIs(t, err, common.ErrDuplicateUsername)
}

func TestSignup_Validation(t *testing.T) {
	svc, _, _ := newTestAuth(t, &mockUserRepository{})
	ctx := context.Background()

	cases := []struct {
		name string
		req  SignupRequest
	}{
		{"missing fields", SignupRequest{Username: "bob"}},
		{"bad email", SignupRequest{Username: "bob", Email: "not-an-email", FirstName: "b", LastName: "b", Password: "pw123"}},
		{"unsafe username", SignupRequest{Username: "bad user!", Email: "bob@x.com", FirstName: "b", LastName: "b", Password: "pw123"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tc.req)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestTitleCase(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"bob":          "Bob",
		"BOB":          "Bob",
		"mary jane":    "Mary Jane",
		"o'neill":      "O'Neill",
		"jean-luc":     "Jean-Luc",
		"":             "",
		"already Good": "Already Good",
	}
	for in, want := range cases {
		assert.Equal(t, want, titleCase(in), "titleCase(%q)", in)
	}
}
