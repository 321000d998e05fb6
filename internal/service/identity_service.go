package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/cache"
	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/repository"
	"github.com/d60-Lab/microblog/pkg/errs"
	"github.com/d60-Lab/microblog/pkg/logger"
)

// IdentityService 注册、登录与改名
type IdentityService interface {
	Register(ctx context.Context, username, identityHash string) (*model.User, error)
	// LoginByIdentity 按身份哈希查找账号，未注册返回 ErrNotFound
	LoginByIdentity(ctx context.Context, identityHash string) (*model.User, error)
	Get(ctx context.Context, id uint) (cache.UserSnapshot, error)
	Rename(ctx context.Context, id uint, newUsername string) (*model.User, error)
}

type identityService struct {
	db    *gorm.DB
	repos *repository.Repositories
	users *cache.UserCache
}

func NewIdentityService(db *gorm.DB, repos *repository.Repositories, users *cache.UserCache) IdentityService {
	return &identityService{db: db, repos: repos, users: users}
}

func cleanUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if err := model.ValidateUsername(username); err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrInvalid, err)
	}
	return username, nil
}

func (s *identityService) Register(ctx context.Context, username, identityHash string) (*model.User, error) {
	username, err := cleanUsername(username)
	if err != nil {
		return nil, err
	}
	if identityHash == "" {
		return nil, fmt.Errorf("identity: %w", errs.ErrInvalid)
	}

	if _, err := s.repos.Users.FindByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("username %q already taken: %w", username, errs.ErrConflict)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	u, err := s.repos.Users.Create(ctx, username, identityHash)
	if err != nil {
		return nil, err
	}
	logger.Info("user registered", zap.Uint("user", u.ID), zap.String("username", u.Username))
	return u, nil
}

func (s *identityService) LoginByIdentity(ctx context.Context, identityHash string) (*model.User, error) {
	return s.repos.Users.FindByIdentityHash(ctx, identityHash)
}

func (s *identityService) Get(ctx context.Context, id uint) (cache.UserSnapshot, error) {
	if s.users == nil {
		u, err := s.repos.Users.FindByID(ctx, id)
		if err != nil {
			return cache.UserSnapshot{}, err
		}
		return cache.Snapshot(u), nil
	}
	return s.users.Get(ctx, id, s.repos.Users.FindByID)
}

func (s *identityService) Rename(ctx context.Context, id uint, newUsername string) (*model.User, error) {
	newUsername, err := cleanUsername(newUsername)
	if err != nil {
		return nil, err
	}

	var renamed *model.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)
		u, err := repos.Users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if u.UsernameKey == model.UsernameKey(newUsername) {
			return fmt.Errorf("new username matches the current one: %w", errs.ErrConflict)
		}
		if _, err := repos.Users.FindByUsername(ctx, newUsername); err == nil {
			return fmt.Errorf("username %q already taken: %w", newUsername, errs.ErrConflict)
		} else if !errors.Is(err, errs.ErrNotFound) {
			return err
		}

		if err := repos.Users.UpdateUsername(ctx, id, newUsername); err != nil {
			return err
		}
		if _, err := repos.Posts.RenameAuthor(ctx, u.Username, newUsername); err != nil {
			return err
		}
		u.Username = newUsername
		u.UsernameKey = model.UsernameKey(newUsername)
		renamed = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.users != nil {
		s.users.Invalidate(ctx, id)
	}
	return renamed, nil
}
