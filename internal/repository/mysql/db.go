package mysql

import (
	"Sawa_Community/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB(dsn string) error {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Migrate 自动建表（开发阶段 OK）
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityMember{},
		&model.Event{},
		&model.EventMember{},
		&model.Post{},
		&model.PostLike{},
		&model.Comment{},
		&model.Message{},
		&model.RoomCounter{},
		&model.MessageRead{},
		&model.Notification{},
		&model.EventOutbox{},
	)
}
