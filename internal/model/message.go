package model

import "time"

// Message 一条聊天消息。Seq 是房间内唯一的排序依据，CreatedAt 仅作展示。
// 消息一经写入不可修改，已读状态另存 MessageRead。
type Message struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;uniqueIndex:uk_room_seq,priority:1"`
	Seq         uint64 `gorm:"not null;uniqueIndex:uk_room_seq,priority:2"`
	SenderID    uint64 `gorm:"not null;index"`
	Content     string `gorm:"type:text"`
	ImageURL    string `gorm:"size:255"`
	CreatedAt   time.Time
}

// RoomCounter 每个房间一行，发号在事务里自增，保证连续单调
type RoomCounter struct {
	CommunityID uint64 `gorm:"primaryKey;autoIncrement:false"`
	LastSeq     uint64 `gorm:"not null;default:0"`
	UpdatedAt   time.Time
}

func (RoomCounter) TableName() string {
	return "room_counters"
}

// MessageRead 只插入不删除，天然单调：标过已读就不会再回到未读
type MessageRead struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index:idx_read_room_user,priority:1"`
	MessageID   uint64 `gorm:"not null;uniqueIndex:uk_msg_user,priority:1"`
	UserID      uint64 `gorm:"not null;index:idx_read_room_user,priority:2;uniqueIndex:uk_msg_user,priority:2"`
	CreatedAt   time.Time
}

func (MessageRead) TableName() string {
	return "message_reads"
}
