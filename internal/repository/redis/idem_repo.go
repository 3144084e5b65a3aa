package redis

import (
	"context"
	"fmt"
	"time"
)

const (
	IdemKeyTTL    = 24 * time.Hour
	IdemKeyPrefix = "idem:key"
)

// IdempotencyRepository 幂等键存储：SetNX 首见放行，重放拦截
type IdempotencyRepository struct{}

// Claim 返回 true 表示首次见到该键，调用方可以执行；false 表示重放
func (r *IdempotencyRepository) Claim(ctx context.Context, userID uint64, key string) (bool, error) {
	k := fmt.Sprintf("%s:%d:%s", IdemKeyPrefix, userID, key)
	return Client.SetNX(ctx, k, 1, IdemKeyTTL).Result()
}

// Release 归还键。请求没有成功生效时必须归还，
// 否则调用方带同一个键的重试会被当成重放拦截
func (r *IdempotencyRepository) Release(ctx context.Context, userID uint64, key string) error {
	k := fmt.Sprintf("%s:%d:%s", IdemKeyPrefix, userID, key)
	return Client.Del(ctx, k).Err()
}
