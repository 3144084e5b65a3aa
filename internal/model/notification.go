package model

import "time"

type Notification struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;index:idx_notify_user_read,priority:1"`
	Message   string `gorm:"size:255;not null"`
	IsRead    bool   `gorm:"not null;default:false;index:idx_notify_user_read,priority:2"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
