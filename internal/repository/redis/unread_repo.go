package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	UnreadCntTTL    = 10 * time.Minute
	UnreadKeyPrefix = "chat:unread"
)

// UnreadCacheRepository 未读数 cache-aside，按房间代次失效：
// 每个房间一个 epoch 计数，新消息 INCR 一次即作废全房间的缓存值，
// 发消息路径上只有这一次 O(1) 的 redis 调用，不按成员逐个删 Key。
// 旧代次的值 Key 靠 TTL 过期回收。
type UnreadCacheRepository struct {
	ttl time.Duration
}

func NewUnreadCacheRepository() *UnreadCacheRepository {
	return &UnreadCacheRepository{ttl: UnreadCntTTL}
}

func (r *UnreadCacheRepository) epochKey(communityID uint64) string {
	return fmt.Sprintf("%s:epoch:%d", UnreadKeyPrefix, communityID)
}

func (r *UnreadCacheRepository) key(communityID uint64, epoch int64, userID uint64) string {
	return fmt.Sprintf("%s:%d:%d:%d", UnreadKeyPrefix, communityID, epoch, userID)
}

func (r *UnreadCacheRepository) epoch(ctx context.Context, communityID uint64) (int64, error) {
	v, err := Client.Get(ctx, r.epochKey(communityID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Bump 新消息到达，推进房间代次
func (r *UnreadCacheRepository) Bump(ctx context.Context, communityID uint64) error {
	return Client.Incr(ctx, r.epochKey(communityID)).Err()
}

func (r *UnreadCacheRepository) GetCached(ctx context.Context, communityID, userID uint64) (int64, bool, error) {
	epoch, err := r.epoch(ctx, communityID)
	if err != nil {
		return 0, false, err
	}
	val, err := Client.Get(ctx, r.key(communityID, epoch, userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	return val, true, err
}

func (r *UnreadCacheRepository) Set(ctx context.Context, communityID, userID uint64, cnt int64) error {
	epoch, err := r.epoch(ctx, communityID)
	if err != nil {
		return err
	}
	return Client.Set(ctx, r.key(communityID, epoch, userID), cnt, r.ttl).Err()
}

// Delete 只删本人当前代次的值，markRead 后用
func (r *UnreadCacheRepository) Delete(ctx context.Context, communityID, userID uint64) error {
	epoch, err := r.epoch(ctx, communityID)
	if err != nil {
		return err
	}
	if err := Client.Del(ctx, r.key(communityID, epoch, userID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
