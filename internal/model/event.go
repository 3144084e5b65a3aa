package model

import "time"

// EventGrace 活动结束的宽限期：超过开始时间1小时视为过期
const EventGrace = time.Hour

type Event struct {
	ID          uint64  `gorm:"primaryKey"`
	CommunityID uint64  `gorm:"not null;index:idx_event_community"`
	Title       string  `gorm:"size:200;not null"`
	Description string  `gorm:"type:text"`
	Latitude    float64 `gorm:"not null;default:0"`
	Longitude   float64 `gorm:"not null;default:0"`
	StartsAt    time.Time `gorm:"not null;index"`
	Capacity    int       `gorm:"not null"`
	JoinedCount int       `gorm:"not null;default:0"`
	CreatedBy   uint64    `gorm:"not null;index"`
	RemindedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Expired 过期只由开始时间推算，不落库，避免脏标记
func (e *Event) Expired(now time.Time) bool {
	return now.After(e.StartsAt.Add(EventGrace))
}

type EventMember struct {
	ID        uint64 `gorm:"primaryKey"`
	EventID   uint64 `gorm:"not null;index;uniqueIndex:uk_event_user"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_event_user"`
	CreatedAt time.Time
}
