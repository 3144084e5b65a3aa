package service

import (
	"context"
	"time"

	"Sawa_Community/internal/pkg"
	"Sawa_Community/internal/repository/mysql"
	"Sawa_Community/internal/repository/redis"

	"github.com/google/uuid"

	"gorm.io/gorm"
)

type PostLikeService struct {
	repo      *mysql.PostLikeRepository
	likeCache *redis.LikeCacheRepository
	lock      *redis.DistLock
}

func NewPostLikeService(db *gorm.DB) *PostLikeService {
	return &PostLikeService{
		repo:      mysql.NewPostLikeRepository(db),
		likeCache: redis.NewLikeCacheRepository(),
		lock:      &redis.DistLock{},
	}
}

// Like 先写库，成功翻转后删计数Key，交给读侧惰性重建。
// changed=false 表示重复点赞（幂等命中）。
func (s *PostLikeService) Like(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 || postID == 0 {
		return false, pkg.ErrInvalidParam
	}
	changed, err := s.repo.Like(ctx, userID, postID)
	if err != nil || !changed {
		return changed, err
	}
	_ = s.likeCache.DeleteCount(ctx, postID)
	return true, nil
}

// Unlike 同样策略：写库成功后删计数Key
func (s *PostLikeService) Unlike(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 || postID == 0 {
		return false, pkg.ErrInvalidParam
	}
	changed, err := s.repo.Unlike(ctx, userID, postID)
	if err != nil || !changed {
		return changed, err
	}
	_ = s.likeCache.DeleteCount(ctx, postID)
	return true, nil
}

func (s *PostLikeService) IsLiked(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 || postID == 0 {
		return false, pkg.ErrInvalidParam
	}
	return s.repo.IsLiked(ctx, userID, postID)
}

// GetCount 计数读路径：缓存命中直接返回；miss 时抢短锁回源重建，
// 抢不到锁的短暂退避后再读一次缓存，避免全体打DB
func (s *PostLikeService) GetCount(ctx context.Context, userID, postID uint64) (int64, error) {
	if v, hit, err := s.likeCache.GetLikeCountCached(ctx, postID); err == nil && hit {
		return v, nil
	}

	token := uuid.NewString()
	got, _ := s.lock.Acquire(ctx, postID, token)
	if got {
		defer func() {
			_ = s.lock.Release(ctx, postID, token)
		}()

		// 锁内二次检查
		if v, hit, err := s.likeCache.GetLikeCountCached(ctx, postID); err == nil && hit {
			return v, nil
		}
		v, err := s.repo.GetLikeCount(ctx, postID)
		if err != nil {
			return 0, err
		}
		_ = s.likeCache.SetLikeCount(ctx, postID, v)
		return v, nil
	}

	time.Sleep(50 * time.Millisecond)
	if v, hit, err := s.likeCache.GetLikeCountCached(ctx, postID); err == nil && hit {
		return v, nil
	}
	return s.repo.GetLikeCount(ctx, postID)
}
