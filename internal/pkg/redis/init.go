package redis

import (
	"Inkwell/internal/api/config"
	"Inkwell/internal/pkg/logger"
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

var Rdb *redis.Client

// InitRedis 初始化 Redis 客户端连接
func InitRedis(cfg config.RedisConfig) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,

		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})
	rdb.AddHook(logger.NewRedisLogger(cfg.SlowThreshold))

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	Rdb = rdb
	return nil
}

// SetClient 替换全局客户端
func SetClient(client *redis.Client) {
	Rdb = client
}

// Close 关闭全局客户端
func Close() error {
	if Rdb == nil {
		return nil
	}
	return Rdb.Close()
}
