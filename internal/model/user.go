package model

import "time"

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;size:32;not null"`
	Password  string `gorm:"size:255;not null"`
	Email     string `gorm:"uniqueIndex;size:64;not null"`
	Avatar    string `gorm:"size:255"` // 对象存储URL，后端不关心文件内容
	AboutMe   string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
