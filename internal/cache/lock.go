package cache

import (
	"context"
	"time"

	"MomCare/storage/redis"
)

// TryLock 尝试获取分布式锁，成功返回 true
func TryLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	key := redis.Key("lock", name)
	return redis.Client().SetNX(ctx, key, "1", ttl).Result()
}

// Unlock 释放分布式锁
func Unlock(ctx context.Context, name string) error {
	key := redis.Key("lock", name)
	return redis.Client().Del(ctx, key).Err()
}
