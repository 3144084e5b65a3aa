package service

import (
	"context"
	"time"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/pkg"
	"Sawa_Community/internal/repository/mysql"

	"gorm.io/gorm"
)

type EventService struct {
	repo       *mysql.EventRepository
	memberRepo *mysql.CommunityMemberRepository
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{
		repo:       mysql.NewEventRepository(db),
		memberRepo: mysql.NewCommunityMemberRepository(db),
	}
}

type CreateEventInput struct {
	CommunityID uint64
	Title       string
	Description string
	Latitude    float64
	Longitude   float64
	StartsAt    time.Time
	Capacity    int
}

func (s *EventService) CreateEvent(ctx context.Context, userID uint64, in CreateEventInput) (*model.Event, error) {
	if in.Capacity < 1 {
		return nil, pkg.ErrInvalidCapacity
	}
	if in.Title == "" || in.StartsAt.IsZero() {
		return nil, pkg.ErrInvalidParam
	}
	ok, err := s.memberRepo.IsMember(ctx, in.CommunityID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkg.ErrNotMember
	}

	e := &model.Event{
		CommunityID: in.CommunityID,
		Title:       in.Title,
		Description: in.Description,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		StartsAt:    in.StartsAt,
		Capacity:    in.Capacity,
		CreatedBy:   userID,
	}
	if err = s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// JoinEvent 过期判断用当前时间现算；名额判断在提交时由仓储 CAS 决定，
// 并发抢位输掉的一方拿到 ErrEventFull
func (s *EventService) JoinEvent(ctx context.Context, eventID, userID uint64) (bool, error) {
	e, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return false, err
	}
	if e.Expired(time.Now()) {
		return false, pkg.ErrEventExpired
	}
	ok, err := s.memberRepo.IsMember(ctx, e.CommunityID, userID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, pkg.ErrNotMember
	}
	return s.repo.Join(ctx, eventID, userID)
}

func (s *EventService) LeaveEvent(ctx context.Context, eventID, userID uint64) (bool, error) {
	if _, err := s.repo.FindByID(ctx, eventID); err != nil {
		return false, err
	}
	return s.repo.Leave(ctx, eventID, userID)
}

// DeleteEvent 仅创建者或社区管理员
func (s *EventService) DeleteEvent(ctx context.Context, eventID, userID uint64) error {
	e, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	if e.CreatedBy != userID {
		admin, err := s.memberRepo.IsAdmin(ctx, e.CommunityID, userID)
		if err != nil {
			return err
		}
		if !admin {
			return pkg.ErrNotAuthorized
		}
	}
	return s.repo.Delete(ctx, eventID)
}

func (s *EventService) ListByCommunity(ctx context.Context, communityID uint64, page, size int) ([]model.Event, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	return s.repo.ListByCommunity(ctx, communityID, (page-1)*size, size)
}
