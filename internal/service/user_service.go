package service

import (
	"context"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/pkg"
	"Sawa_Community/internal/repository/mysql"
	"Sawa_Community/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	repo  *mysql.UserRepository
	rUser *redis.UserRepository
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		repo:  mysql.NewUserRepository(db),
		rUser: &redis.UserRepository{},
	}
}

func (s *UserService) Register(ctx context.Context, username, password, email string) error {
	if username == "" || password == "" || email == "" {
		return pkg.ErrInvalidParam
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		Username: username,
		Password: string(hash),
		Email:    email,
	}

	return s.repo.Create(ctx, user)
}

func (s *UserService) Login(ctx context.Context, username, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, pkg.ErrNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, pkg.ErrNotAuthorized
	}
	// token写入redis，实现单端登录
	token, err := pkg.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}
	if err = s.rUser.AddUserToken(ctx, user.ID, token.AccessToken); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *UserService) Logout(ctx context.Context, usrID uint64) error {
	return s.rUser.DeleteUserToken(ctx, usrID)
}

// UpdateProfile 资料更新成功后由 outbox 异步生成 profile.updated 通知
func (s *UserService) UpdateProfile(ctx context.Context, usrID uint64, avatar, aboutMe string) error {
	return s.repo.UpdateProfile(ctx, usrID, avatar, aboutMe)
}

func (s *UserService) GetProfile(ctx context.Context, usrID uint64) (*model.User, error) {
	return s.repo.FindByID(ctx, usrID)
}
