package mysql

import (
	"context"
	"errors"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

// Append 房间内发号并落消息，一个事务。
// seq 由 room_counters 行自增分配：UPDATE 持有行锁，同房间的并发写serialize，
// (community_id, seq) 唯一键兜底，序号严格递增且无空洞。
// 先落库后才向订阅者推送，由上层保证。
func (r *MessageRepository) Append(ctx context.Context, msg *model.Message) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.RoomCounter{}).
			Where("community_id = ?", msg.CommunityID).
			UpdateColumn("last_seq", gorm.Expr("last_seq + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 老社区没有发号行时补建
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&model.RoomCounter{CommunityID: msg.CommunityID}).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.RoomCounter{}).
				Where("community_id = ?", msg.CommunityID).
				UpdateColumn("last_seq", gorm.Expr("last_seq + 1")).Error; err != nil {
				return err
			}
		}
		var rc model.RoomCounter
		if err := tx.Where("community_id = ?", msg.CommunityID).First(&rc).Error; err != nil {
			return err
		}
		msg.Seq = rc.LastSeq
		return tx.Create(msg).Error
	})
}

// ListAfter 按 seq 游标读历史，afterSeq=0 表示从头
func (r *MessageRepository) ListAfter(ctx context.Context, communityID, afterSeq uint64, limit int) ([]model.Message, error) {
	var list []model.Message
	err := r.DB.WithContext(ctx).
		Where("community_id = ? AND seq > ?", communityID, afterSeq).
		Order("seq asc").Limit(limit).Find(&list).Error
	return list, err
}

// MarkRead 只插入不更新：已读状态单调，不会从 true 回到 false
func (r *MessageRepository) MarkRead(ctx context.Context, communityID, userID, messageID uint64) error {
	var msg model.Message
	err := r.DB.WithContext(ctx).
		First(&msg, "id = ? AND community_id = ?", messageID, communityID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.ErrNotFound
	}
	if err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&model.MessageRead{
		CommunityID: communityID,
		MessageID:   messageID,
		UserID:      userID,
	}).Error
}

// UnreadCount 房间内非本人发送且没有已读标记的消息数
func (r *MessageRepository) UnreadCount(ctx context.Context, communityID, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Message{}).
		Where("community_id = ? AND sender_id <> ?", communityID, userID).
		Where("NOT EXISTS (SELECT 1 FROM message_reads mr WHERE mr.message_id = messages.id AND mr.user_id = ?)", userID).
		Count(&n).Error
	return n, err
}
