package model

import "time"

type Community struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;size:64;not null"`
	Description string `gorm:"type:text"`
	Category    string `gorm:"size:32;index"`
	ImageURL    string `gorm:"size:255"`
	CreatorID   uint64 `gorm:"not null;index"`
	MemberCount int64  `gorm:"not null;default:0"`
	Archived    bool   `gorm:"not null;default:false"` // 只做软归档，不物理删除
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CommunityMember struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	Role        int    `gorm:"not null;default:0"` // 0=member, 1=admin
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const (
	RoleMember = 0
	RoleAdmin  = 1
)
