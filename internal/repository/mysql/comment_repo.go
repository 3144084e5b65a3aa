package mysql

import (
	"context"
	"errors"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/pkg"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{DB: db}
}

// Create 评论与帖子评论数同事务落库
func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.First(&post, "id = ? AND status = 0", c.PostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrNotFound
			}
			return err
		}
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).
			Where("id = ?", c.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
}

func (r *CommentRepository) FindByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var c model.Comment
	err := r.DB.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	return &c, err
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID uint64, offset, limit int) ([]model.Comment, error) {
	var list []model.Comment
	err := r.DB.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at asc, id asc").
		Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

// Delete 幂等删除：已删返回 changed=false
func (r *CommentRepository) Delete(ctx context.Context, commentID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.Comment
		if err := tx.First(&c, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Delete(&model.Comment{}, commentID).Error; err != nil {
			return err
		}
		changed = true
		return tx.Model(&model.Post{}).
			Where("id = ?", c.PostID).
			UpdateColumn("comment_count",
				gorm.Expr("CASE WHEN comment_count > 0 THEN comment_count - 1 ELSE 0 END")).Error
	})
	return changed, err
}
