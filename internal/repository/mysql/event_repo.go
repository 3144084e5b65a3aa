package mysql

import (
	"context"
	"errors"
	"time"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) FindByID(ctx context.Context, id uint64) (*model.Event, error) {
	var e model.Event
	err := r.DB.WithContext(ctx).First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	return &e, err
}

func (r *EventRepository) ListByCommunity(ctx context.Context, communityID uint64, offset, limit int) ([]model.Event, error) {
	var list []model.Event
	err := r.DB.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("starts_at asc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

// Join 名额检查和占位在同一事务内做 CAS：
// 先幂等插入成员行，再用 joined_count < capacity 条件自增，
// 条件不满足整个事务回滚，输掉竞争的一方拿到 ErrEventFull，绝不超卖。
func (r *EventRepository) Join(ctx context.Context, eventID, userID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&model.EventMember{EventID: eventID, UserID: userID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 已报名，幂等
			return nil
		}
		cas := tx.Model(&model.Event{}).
			Where("id = ? AND joined_count < capacity", eventID).
			UpdateColumn("joined_count", gorm.Expr("joined_count + 1"))
		if cas.Error != nil {
			return cas.Error
		}
		if cas.RowsAffected == 0 {
			return pkg.ErrEventFull
		}
		changed = true
		return nil
	})
	return changed, err
}

// Leave 幂等退出：没报名时返回 changed=false
func (r *EventRepository) Leave(ctx context.Context, eventID, userID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("event_id = ? AND user_id = ?", eventID, userID).
			Delete(&model.EventMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return tx.Model(&model.Event{}).
			Where("id = ?", eventID).
			UpdateColumn("joined_count",
				gorm.Expr("CASE WHEN joined_count > 0 THEN joined_count - 1 ELSE 0 END")).Error
	})
	return changed, err
}

// Delete 连同报名记录一起删，幂等
func (r *EventRepository) Delete(ctx context.Context, eventID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&model.EventMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Event{}, eventID).Error
	})
}

func (r *EventRepository) Participants(ctx context.Context, eventID uint64) ([]model.EventMember, error) {
	var list []model.EventMember
	err := r.DB.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id asc").Find(&list).Error
	return list, err
}

// ClaimUpcoming 领取一批即将开始且未提醒过的活动：先打时间戳占住，
// 再由调用方生成提醒事件，避免多实例重复提醒
func (r *EventRepository) ClaimUpcoming(ctx context.Context, now, until time.Time, limit int) ([]model.Event, error) {
	var claimed []model.Event
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("reminded_at IS NULL AND starts_at > ? AND starts_at <= ?", now, until).
			Order("starts_at asc").Limit(limit).Find(&claimed).Error; err != nil {
			return err
		}
		if len(claimed) == 0 {
			return nil
		}
		ids := make([]uint64, len(claimed))
		for i := range claimed {
			ids[i] = claimed[i].ID
		}
		return tx.Model(&model.Event{}).
			Where("id IN ? AND reminded_at IS NULL", ids).
			Update("reminded_at", now).Error
	})
	return claimed, err
}
