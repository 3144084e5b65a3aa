package model

import "time"

type Post struct {
	ID           uint64    `gorm:"primaryKey;index:idx_comm_time_id,priority:3,sort:desc"`
	CommunityID  uint64    `gorm:"not null;index:idx_comm_time_id,priority:1"`
	AuthorID     uint64    `gorm:"not null;index:idx_author_time"`
	Content      string    `gorm:"type:text"`
	ImageURL     string    `gorm:"size:255"`
	Status       int       `gorm:"not null;default:0"` // 0=normal 1=deleted
	LikeCount    int64     `gorm:"not null;default:0"`
	CommentCount int64     `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"index:idx_comm_time_id,priority:2,sort:desc"`
	UpdatedAt    time.Time
}
