package service

import (
	"context"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/repository/mysql"

	"gorm.io/gorm"
)

type NotificationService struct {
	repo *mysql.NotificationRepository
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{
		repo: mysql.NewNotificationRepository(db),
	}
}

func (s *NotificationService) List(ctx context.Context, userID uint64, page, size int) ([]model.Notification, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	return s.repo.ListByUser(ctx, userID, (page-1)*size, size)
}

// MarkSeen 批量置已读
func (s *NotificationService) MarkSeen(ctx context.Context, userID uint64) error {
	return s.repo.MarkAllSeen(ctx, userID)
}

// HasUnread 纯读
func (s *NotificationService) HasUnread(ctx context.Context, userID uint64) (bool, error) {
	return s.repo.HasUnread(ctx, userID)
}
