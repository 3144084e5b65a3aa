package service

import (
	"context"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/pkg"
	"Sawa_Community/internal/repository/mysql"

	"gorm.io/gorm"
)

type CommentService struct {
	repo       *mysql.CommentRepository
	postRepo   *mysql.PostRepository
	memberRepo *mysql.CommunityMemberRepository
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		repo:       mysql.NewCommentRepository(db),
		postRepo:   mysql.NewPostRepository(db),
		memberRepo: mysql.NewCommunityMemberRepository(db),
	}
}

func (s *CommentService) AddComment(ctx context.Context, userID, postID uint64, content string) (*model.Comment, error) {
	if content == "" {
		return nil, pkg.ErrInvalidParam
	}
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	ok, err := s.memberRepo.IsMember(ctx, post.CommunityID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkg.ErrNotMember
	}

	c := &model.Comment{
		PostID:   postID,
		AuthorID: userID,
		Content:  content,
	}
	if err = s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentService) ListComments(ctx context.Context, postID uint64, page, size int) ([]model.Comment, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 50
	}
	return s.repo.ListByPost(ctx, postID, (page-1)*size, size)
}

// DeleteComment 评论作者、帖子作者或社区管理员可删
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint64) error {
	c, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		if err == pkg.ErrNotFound {
			// 已删除，幂等
			return nil
		}
		return err
	}
	if c.AuthorID != userID {
		post, err := s.postRepo.FindByID(ctx, c.PostID)
		if err != nil {
			return err
		}
		if post.AuthorID != userID {
			admin, err := s.memberRepo.IsAdmin(ctx, post.CommunityID, userID)
			if err != nil {
				return err
			}
			if !admin {
				return pkg.ErrNotAuthorized
			}
		}
	}
	_, err = s.repo.Delete(ctx, commentID)
	return err
}
