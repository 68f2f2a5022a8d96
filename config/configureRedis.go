package config

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func InitRedisServer(ctx context.Context) *redis.Client {
	addr := GetEnv("REDIS_ADDRESS")
	if addr == "" {
		addr = "localhost:6379"
		Logger.Warn("REDIS_ADDRESS not set, using default", zap.String("addr", addr))
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: GetEnv("REDIS_PASSWORD"),
		DB:       0,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	return client
}
