package mysql

import (
	"context"
	"errors"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommunityMemberRepository struct {
	DB *gorm.DB
}

func NewCommunityMemberRepository(db *gorm.DB) *CommunityMemberRepository {
	return &CommunityMemberRepository{DB: db}
}

// Join 幂等加入：成员行与计数在同一事务内变更，不存在"半生效"。
// 返回 changed=false 表示重复加入，视为成功。
func (r *CommunityMemberRepository) Join(ctx context.Context, communityID, userID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var community model.Community
		if err := tx.First(&community, communityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrNotFound
			}
			return err
		}
		if community.Archived {
			return pkg.ErrNotFound
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&model.CommunityMember{
			CommunityID: communityID,
			UserID:      userID,
			Role:        model.RoleMember,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 已是成员，幂等
			return nil
		}
		changed = true
		return tx.Model(&model.Community{}).
			Where("id = ?", communityID).
			UpdateColumn("member_count", gorm.Expr("member_count + 1")).Error
	})
	return changed, err
}

// Leave 退出社区。最后一名管理员退出时必须同事务内指定接任者，
// 否则返回 ErrAdminRequired，保证 admin ⊆ members 且管理员非空。
func (r *CommunityMemberRepository) Leave(ctx context.Context, communityID, userID, newAdminID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member model.CommunityMember
		if err := tx.Where("community_id = ? AND user_id = ?", communityID, userID).
			First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrNotMember
			}
			return err
		}
		if member.Role == model.RoleAdmin {
			var others int64
			if err := tx.Model(&model.CommunityMember{}).
				Where("community_id = ? AND role = ? AND user_id <> ?", communityID, model.RoleAdmin, userID).
				Count(&others).Error; err != nil {
				return err
			}
			if others == 0 {
				if newAdminID == 0 || newAdminID == userID {
					return pkg.ErrAdminRequired
				}
				// 接任者必须已是成员
				res := tx.Model(&model.CommunityMember{}).
					Where("community_id = ? AND user_id = ?", communityID, newAdminID).
					Update("role", model.RoleAdmin)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return pkg.ErrNotMember
				}
			}
		}
		if err := tx.Delete(&model.CommunityMember{}, member.ID).Error; err != nil {
			return err
		}
		return tx.Model(&model.Community{}).
			Where("id = ?", communityID).
			UpdateColumn("member_count",
				gorm.Expr("CASE WHEN member_count > 0 THEN member_count - 1 ELSE 0 END")).Error
	})
}

func (r *CommunityMemberRepository) IsMember(ctx context.Context, communityID, userID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}

// IsAdmin 纯读，无副作用
func (r *CommunityMemberRepository) IsAdmin(ctx context.Context, communityID, userID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.CommunityMember{}).
		Where("community_id = ? AND user_id = ? AND role = ?", communityID, userID, model.RoleAdmin).
		Count(&count).Error
	return count > 0, err
}

func (r *CommunityMemberRepository) Members(ctx context.Context, communityID uint64, offset, limit int) ([]model.CommunityMember, error) {
	var list []model.CommunityMember
	err := r.DB.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("id asc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}
