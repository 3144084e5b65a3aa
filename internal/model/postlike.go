package model

import "time"

type PostLike struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_post_user,priority:2"`
	PostID    uint64 `gorm:"not null;index;uniqueIndex:uk_post_user,priority:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PostLike) TableName() string {
	return "post_likes"
}
