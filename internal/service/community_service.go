package service

import (
	"context"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/pkg"
	"Sawa_Community/internal/repository/mysql"

	"gorm.io/gorm"
)

type CommunityService struct {
	repo       *mysql.CommunityRepository
	memberRepo *mysql.CommunityMemberRepository
}

func NewCommunityService(db *gorm.DB) *CommunityService {
	return &CommunityService{
		repo:       mysql.NewCommunityRepository(db),
		memberRepo: mysql.NewCommunityMemberRepository(db),
	}
}

func (s *CommunityService) CreateCommunity(ctx context.Context, userID uint64, name, desc, category, imageURL string) (*model.Community, error) {
	if name == "" {
		return nil, pkg.ErrInvalidParam
	}

	community := &model.Community{
		Name:        name,
		Description: desc,
		Category:    category,
		ImageURL:    imageURL,
		CreatorID:   userID,
	}

	if _, err := s.repo.Create(ctx, community); err != nil {
		return nil, err
	}

	return community, nil
}

// JoinCommunity 重复加入返回 changed=false，不算错误
func (s *CommunityService) JoinCommunity(ctx context.Context, userID, communityID uint64) (bool, error) {
	if communityID == 0 {
		return false, pkg.ErrInvalidParam
	}
	return s.memberRepo.Join(ctx, communityID, userID)
}

// LeaveCommunity 最后一名管理员退出时必须带上接任者ID
func (s *CommunityService) LeaveCommunity(ctx context.Context, userID, communityID, newAdminID uint64) error {
	if communityID == 0 {
		return pkg.ErrInvalidParam
	}
	return s.memberRepo.Leave(ctx, communityID, userID, newAdminID)
}

func (s *CommunityService) IsAdmin(ctx context.Context, communityID, userID uint64) (bool, error) {
	return s.memberRepo.IsAdmin(ctx, communityID, userID)
}

// ArchiveCommunity 软归档，仅管理员
func (s *CommunityService) ArchiveCommunity(ctx context.Context, userID, communityID uint64) error {
	admin, err := s.memberRepo.IsAdmin(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if !admin {
		return pkg.ErrNotAuthorized
	}
	return s.repo.Archive(ctx, communityID)
}

func (s *CommunityService) ListCommunities(ctx context.Context, page, size int) ([]model.Community, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}

	offset := (page - 1) * size
	return s.repo.List(ctx, offset, size)
}

func (s *CommunityService) ListMembers(ctx context.Context, communityID uint64, page, size int) ([]model.CommunityMember, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	return s.memberRepo.Members(ctx, communityID, (page-1)*size, size)
}
