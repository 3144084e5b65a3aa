package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	LikeCntTTL       = 24 * time.Hour
	LockTTL          = 300 * time.Millisecond
	LikeCntKeyPrefix = "like:cnt:post"  // 缓存帖子点赞计数
	LockKeyPrefix    = "lock:like:post" // 回源重建锁
)

// LikeCacheRepository 点赞计数的 cache-aside：写侧删 Key，读侧锁内回源重建
type LikeCacheRepository struct {
	ttl time.Duration
}

func NewLikeCacheRepository() *LikeCacheRepository {
	return &LikeCacheRepository{ttl: LikeCntTTL}
}

func (r *LikeCacheRepository) cntKey(postID uint64) string {
	return fmt.Sprintf("%s:%d", LikeCntKeyPrefix, postID)
}

// GetLikeCountCached 第二个返回值表示是否命中
func (r *LikeCacheRepository) GetLikeCountCached(ctx context.Context, postID uint64) (int64, bool, error) {
	val, err := Client.Get(ctx, r.cntKey(postID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	return val, true, err
}

// SetLikeCount 回源后回填
func (r *LikeCacheRepository) SetLikeCount(ctx context.Context, postID uint64, cnt int64) error {
	return Client.Set(ctx, r.cntKey(postID), cnt, r.ttl).Err()
}

// DeleteCount 写路径删计数 Key，读侧惰性重建
func (r *LikeCacheRepository) DeleteCount(ctx context.Context, postID uint64) error {
	if err := Client.Del(ctx, r.cntKey(postID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// DistLock 基于 SetNX 的短锁，防止缓存miss时并发打库
type DistLock struct{}

func (l *DistLock) Acquire(ctx context.Context, postID uint64, token string) (bool, error) {
	key := fmt.Sprintf("%s:%d", LockKeyPrefix, postID)
	return Client.SetNX(ctx, key, token, LockTTL).Result()
}

// Release 用lua保证原子性
func (l *DistLock) Release(ctx context.Context, postID uint64, token string) error {
	key := fmt.Sprintf("%s:%d", LockKeyPrefix, postID)
	_, err := redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`).Run(ctx, Client, []string{key}, token).Result()
	return err
}
