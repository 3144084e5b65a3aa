package service

import (
	"context"
	"time"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/pkg"
	"Sawa_Community/internal/repository/mysql"

	"gorm.io/gorm"
)

type PostService struct {
	repo       *mysql.PostRepository
	memberRepo *mysql.CommunityMemberRepository
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		repo:       mysql.NewPostRepository(db),
		memberRepo: mysql.NewCommunityMemberRepository(db),
	}
}

func (s *PostService) CreatePost(ctx context.Context, userID, communityID uint64, content, imageURL string) (*model.Post, error) {
	if content == "" && imageURL == "" {
		return nil, pkg.ErrInvalidParam
	}

	ok, err := s.memberRepo.IsMember(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkg.ErrNotMember
	}

	post := &model.Post{
		CommunityID: communityID,
		AuthorID:    userID,
		Content:     content,
		ImageURL:    imageURL,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// ListByCommunity 社区帖子列表
func (s *PostService) ListByCommunity(ctx context.Context, communityID uint64, page, size int) ([]model.Post, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}

	offset := (page - 1) * size
	return s.repo.ListByCommunity(ctx, communityID, offset, size)
}

// ListByCommunityCursor 游标分页：首次不传 lastID/lastCreatedAt（或传 0）
// 返回 nextLastID/nextLastCreatedAt 供下一页使用
func (s *PostService) ListByCommunityCursor(ctx context.Context, communityID uint64, lastID uint64, lastCreatedAt int64, size int) ([]model.Post, uint64, int64, error) {
	if size <= 0 || size > 50 {
		size = 20
	}
	var cursorTime time.Time
	if lastCreatedAt > 0 {
		cursorTime = time.Unix(lastCreatedAt, 0)
	}
	list, err := s.repo.ListByCommunityCursor(ctx, communityID, lastID, cursorTime, size)
	if err != nil {
		return nil, 0, 0, err
	}
	var nextID uint64
	var nextTS int64
	if len(list) > 0 {
		last := list[len(list)-1]
		nextID = last.ID
		nextTS = last.CreatedAt.Unix()
	}
	return list, nextID, nextTS, nil
}

// DeletePost 幂等删除：成功/已删除均返回 nil；仅无权限时报错
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint64) error {
	_, err := s.repo.DeleteWithPermission(ctx, postID, userID)
	return err
}
