package mysql

import (
	"context"
	"encoding/json"
	"time"

	"Sawa_Community/internal/model"

	"gorm.io/gorm"
)

// MaxOutboxRetry 投递最多尝试3次，之后标记 failed 并放弃
const MaxOutboxRetry = 3

type OutboxRepository struct {
	DB *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{DB: db}
}

// Insert 独立写入一条事件（有业务事务时用 postlike_repo 里的同事务写法）
func (r *OutboxRepository) Insert(ctx context.Context, eventType string, targetUserID, actorID, subjectID uint64, extra map[string]any) error {
	m := map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"target":     targetUserID,
		"actor":      actorID,
		"subject":    subjectID,
	}
	for k, v := range extra {
		m[k] = v
	}
	payload, _ := json.Marshal(m)
	return r.DB.WithContext(ctx).Create(&model.EventOutbox{
		EventType:    eventType,
		TargetUserID: targetUserID,
		ActorID:      actorID,
		SubjectID:    subjectID,
		Payload:      string(payload),
		Status:       0,
	}).Error
}

// ListPending 取一批待投递事件，重试超限的不再捞出来
func (r *OutboxRepository) ListPending(ctx context.Context, batchSize int) ([]model.EventOutbox, error) {
	var list []model.EventOutbox
	err := r.DB.WithContext(ctx).
		Where("status = 0 AND retry < ?", MaxOutboxRetry).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error
	return list, err
}

// MarkSent 投递成功
func (r *OutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.EventOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}

// MarkRetry 失败计数+1，达到上限置为 failed（丢弃）。
// 计数和置状态分两条语句：MySQL 的 SET 从左到右求值，同一条 UPDATE 里
// 后面的表达式会读到自增后的 retry，一条写会提前一次触发丢弃。
func (r *OutboxRepository) MarkRetry(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.EventOutbox{}).Where("id = ?", id).
			UpdateColumn("retry", gorm.Expr("retry + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&model.EventOutbox{}).
			Where("id = ? AND retry >= ?", id, MaxOutboxRetry).
			UpdateColumn("status", 2).Error
	})
}
