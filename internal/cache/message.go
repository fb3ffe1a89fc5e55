package cache

import (
	"context"
	"time"

	"MomCare/storage/redis"
)

// 消息幂等标记，防止 MQ 重复投递导致重复处理

const (
	processingTTL = 10 * time.Minute
	processedTTL  = 24 * time.Hour
)

// TryMarkMessageProcessing 标记消息处理中，已被占用时返回 false
func TryMarkMessageProcessing(ctx context.Context, messageID string) (bool, error) {
	key := redis.Key("msg", "processing", messageID)
	return redis.Client().SetNX(ctx, key, "1", processingTTL).Result()
}

// UnmarkMessageProcessing 处理失败时清除处理中标记，允许重试
func UnmarkMessageProcessing(ctx context.Context, messageID string) error {
	key := redis.Key("msg", "processing", messageID)
	return redis.Client().Del(ctx, key).Err()
}

// MarkMessageProcessed 标记消息已处理完成
func MarkMessageProcessed(ctx context.Context, messageID string) error {
	key := redis.Key("msg", "processed", messageID)
	return redis.Client().Set(ctx, key, "1", processedTTL).Err()
}

// IsMessageProcessed 查询消息是否已处理
func IsMessageProcessed(ctx context.Context, messageID string) (bool, error) {
	key := redis.Key("msg", "processed", messageID)
	n, err := redis.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
