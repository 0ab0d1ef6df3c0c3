package cache

import (
	"context"
	"encoding/json"
	"errors"
	"userhub/internal/domain/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// userFinder is the slice of the store the lookup cache reads through to.
type userFinder interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// UserCache is a read-through cache mapping username to a JSON snapshot of
// the user row. Entries have no TTL and are only ever replaced by a later
// miss-populate cycle, so a stale read after a profile update is possible.
// Misses are not cached: an unknown username re-queries the store each time.
//
// There is no single-flight de-duplication. Concurrent misses on one key may
// each query the store and each write the cache; the value is the same row
// either way, so last writer wins harmlessly.
type UserCache struct {
	rdb   *redis.Client
	store userFinder
	log   *zap.Logger
}

func NewUserCache(rdb *redis.Client, store userFinder) *UserCache {
	return &UserCache{rdb: rdb, store: store, log: zap.L().Named("usercache")}
}

func (c *UserCache) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	cached, err := c.rdb.Get(ctx, username).Result()
	if err == nil {
		user := &model.User{}
		if err := json.Unmarshal([]byte(cached), user); err == nil {
			return user, nil
		}
		c.log.Warn("discarding undecodable cache entry", zap.String("username", username))
	} else if !errors.Is(err, redis.Nil) {
		// Cache unreachable: degrade to an authoritative read.
		c.log.Warn("cache read failed, falling back to store", zap.String("username", username), zap.Error(err))
	}

	user, err := c.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(user)
	if err != nil {
		return user, nil
	}
	if err := c.rdb.Set(ctx, username, snapshot, 0).Err(); err != nil {
		c.log.Warn("cache populate failed", zap.String("username", username), zap.Error(err))
	}
	return user, nil
}
