package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
	"userhub/internal/common"

	"github.com/redis/go-redis/v9"
)

// SessionStore holds the per-login derived secret, keyed by user id with a
// TTL matching the access token. Each login overwrites the previous entry
// unconditionally: one active session per user, last login wins.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func sessionKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (s *SessionStore) Put(ctx context.Context, userID int64, secret string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, sessionKey(userID), secret, ttl).Err(); err != nil {
		return fmt.Errorf("session store put: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, userID int64) (string, error) {
	secret, err := s.rdb.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("session store get: %w", err)
	}
	return secret, nil
}
