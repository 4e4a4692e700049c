package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNil 键不存在
var ErrNil = redis.Nil

// SetWithExpiration 设置键值对并设置过期时间
func SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return Rdb.Set(ctx, key, value, expiration).Err()
}

// Exists 键是否存在
func Exists(ctx context.Context, key string) (bool, error) {
	n, err := Rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddToSet 向集合添加成员
func AddToSet(ctx context.Context, key string, members ...interface{}) error {
	return Rdb.SAdd(ctx, key, members...).Err()
}

// GetSet 获取集合
func GetSet(ctx context.Context, key string) ([]string, error) {
	value, err := Rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Rename 重命名键，源键不存在时返回 ErrNil
func Rename(ctx context.Context, oldKey string, newKey string) error {
	err := Rdb.Rename(ctx, oldKey, newKey).Err()
	if err != nil && err.Error() == "ERR no such key" {
		return ErrNil
	}
	return err
}

// DeleteKey 删除一个或多个键
func DeleteKey(ctx context.Context, keys ...string) error {
	return Rdb.Del(ctx, keys...).Err()
}

// RemoveFromSet 从集合移除成员
func RemoveFromSet(ctx context.Context, key string, members ...interface{}) error {
	return Rdb.SRem(ctx, key, members...).Err()
}
