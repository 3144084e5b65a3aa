package mysql

import (
	"context"
	"errors"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/pkg"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) *CommunityRepository {
	return &CommunityRepository{DB: db}
}

// Create 建社区 + 创建者以管理员身份加入 + 房间发号行，一个事务内完成
func (r *CommunityRepository) Create(ctx context.Context, c *model.Community) (*model.Community, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.CommunityMember{
			CommunityID: c.ID,
			UserID:      c.CreatorID,
			Role:        model.RoleAdmin,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Community{}).
			Where("id = ?", c.ID).
			UpdateColumn("member_count", 1).Error; err != nil {
			return err
		}
		c.MemberCount = 1
		// 聊天房间与社区同生命周期
		return tx.Create(&model.RoomCounter{CommunityID: c.ID}).Error
	})
	return c, err
}

func (r *CommunityRepository) FindByID(ctx context.Context, id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.WithContext(ctx).First(&community, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	return &community, err
}

func (r *CommunityRepository) List(ctx context.Context, offset, limit int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.WithContext(ctx).
		Where("archived = ?", false).
		Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

// Archive 软归档，幂等
func (r *CommunityRepository) Archive(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.Community{}).
		Where("id = ?", id).
		Update("archived", true).Error
}
