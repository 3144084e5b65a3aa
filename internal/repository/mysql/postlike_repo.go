package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/pkg"

	"gorm.io/gorm"
)

type PostLikeRepository struct {
	DB *gorm.DB
}

func NewPostLikeRepository(db *gorm.DB) *PostLikeRepository {
	return &PostLikeRepository{DB: db}
}

// Like 点赞按集合语义实现（唯一键 user+post），计数永远等于集合大小。
// false→true 的翻转在同一事务内写入 post.liked outbox 事件，
// 通知投递失败不可能影响点赞本身。
func (r *PostLikeRepository) Like(ctx context.Context, userID, postID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.First(&post, "id = ? AND status = 0", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrNotFound
			}
			return err
		}
		var pl model.PostLike
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&pl).Error
		if err == nil {
			// 已点赞，幂等
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err = tx.Create(&model.PostLike{UserID: userID, PostID: postID}).Error; err != nil {
			return err
		}
		if err = tx.Model(&model.Post{}).
			Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
			return err
		}
		changed = true
		// 自己赞自己不通知
		if post.AuthorID == userID {
			return nil
		}
		return insertOutbox(tx, model.EventPostLiked, post.AuthorID, userID, postID)
	})
	return changed, err
}

// Unlike 取消点赞：集合删除 + 计数防负，不发事件
func (r *PostLikeRepository) Unlike(ctx context.Context, userID, postID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&model.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 未点赞过，幂等
			return nil
		}
		changed = true
		return tx.Model(&model.Post{}).
			Where("id = ?", postID).
			UpdateColumn("like_count",
				gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")).Error
	})
	return changed, err
}

func (r *PostLikeRepository) IsLiked(ctx context.Context, userID, postID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.PostLike{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostLikeRepository) GetLikeCount(ctx context.Context, postID uint64) (int64, error) {
	var p model.Post
	err := r.DB.WithContext(ctx).Select("id", "like_count").First(&p, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, pkg.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return p.LikeCount, nil
}

// insertOutbox 事件落表，和业务变更同一事务提交
func insertOutbox(tx *gorm.DB, eventType string, targetUserID, actorID, subjectID uint64) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"target":     targetUserID,
		"actor":      actorID,
		"subject":    subjectID,
	})
	return tx.Create(&model.EventOutbox{
		EventType:    eventType,
		TargetUserID: targetUserID,
		ActorID:      actorID,
		SubjectID:    subjectID,
		Payload:      string(payload),
		Status:       0,
	}).Error
}
