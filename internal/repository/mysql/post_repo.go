package mysql

import (
	"context"
	"errors"
	"time"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/pkg"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{DB: db}
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Create(post).Error
}

func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).First(&post, "id = ? AND status = 0", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	return &post, err
}

// ListByCommunity 基础分页查询
func (r *PostRepository) ListByCommunity(ctx context.Context, communityID uint64, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.WithContext(ctx).
		Where("community_id = ? AND status = 0", communityID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

// ListByCommunityCursor 基于时间游标的查询：索引 (community_id, created_at DESC, id DESC)
// lastCreatedAt 为零值表示第一页；否则用 (created_at, id) 作为严格游标
func (r *PostRepository) ListByCommunityCursor(ctx context.Context, communityID uint64, lastID uint64, lastCreatedAt time.Time, limit int) ([]model.Post, error) {
	var list []model.Post
	q := r.DB.WithContext(ctx).Where("community_id = ? AND status = 0", communityID)
	if !lastCreatedAt.IsZero() {
		// 标准时间游标：先比时间，再在同一时间点用 id 打破并列
		q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", lastCreatedAt, lastCreatedAt, lastID)
	}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// DeleteWithPermission 作者或社区管理员方可删除；软删帖子并级联硬删评论。
// 幂等：已删除返回 affected=0 且无错误。
func (r *PostRepository) DeleteWithPermission(ctx context.Context, postID, operatorID uint64) (affected int64, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if e := tx.First(&post, "id = ? AND status = 0", postID).Error; e != nil {
			if errors.Is(e, gorm.ErrRecordNotFound) {
				// 不存在或已删，幂等
				return nil
			}
			return e
		}
		if post.AuthorID != operatorID {
			var admin int64
			if e := tx.Model(&model.CommunityMember{}).
				Where("community_id = ? AND user_id = ? AND role >= ?", post.CommunityID, operatorID, model.RoleAdmin).
				Count(&admin).Error; e != nil {
				return e
			}
			if admin == 0 {
				return pkg.ErrNotAuthorized
			}
		}
		res := tx.Model(&model.Post{}).
			Where("id = ? AND status = 0", postID).
			Update("status", 1)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if affected == 0 {
			return nil
		}
		// 评论随帖子级联删除
		return tx.Where("post_id = ?", postID).Delete(&model.Comment{}).Error
	})
	return affected, err
}
