package model

import "time"

// 事件类型
const (
	EventPostLiked      = "post.liked"
	EventEventReminder  = "event.reminder"
	EventProfileUpdated = "profile.updated"
)

// EventOutbox 领域事件外发表：业务事务内落表，由 relayer 异步投递
type EventOutbox struct {
	ID           uint64 `gorm:"primaryKey"`
	EventType    string `gorm:"size:32;not null;index"`
	TargetUserID uint64 `gorm:"not null;index"`
	ActorID      uint64 `gorm:"not null"`
	SubjectID    uint64 `gorm:"not null"` // 事件主体：postID / eventID / userID
	Payload      string `gorm:"type:json;not null"`
	Status       int8   `gorm:"not null;default:0;index"` // 0=pending,1=sent,2=failed
	Retry        int    `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (EventOutbox) TableName() string { return "event_outbox" }
