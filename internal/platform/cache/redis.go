package cache

import (
	"context"
	"userhub/internal/platform/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var RDB *redis.Client

func Connect() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	if _, err := RDB.Ping(ctx).Result(); err != nil {
		zap.L().Fatal("Could not connect to Redis", zap.Error(err))
	}
	zap.L().Info("Connected to Redis", zap.String("addr", config.AppConfig.RedisAddr))
}

func Close() {
	if RDB != nil {
		RDB.Close()
		zap.L().Info("Redis connection closed")
	}
}
