package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/repository"
	"github.com/d60-Lab/microblog/pkg/errs"
	"github.com/d60-Lab/microblog/pkg/logger"
	"github.com/d60-Lab/microblog/pkg/metrics"
)

// AccountService 账号生命周期
type AccountService interface {
	// DeleteAccount 在单个事务内撤销该用户的点赞与表情、删除其帖子及帖子上的全部互动，最后删除用户；
	// 用户不存在时返回 false 且不做任何修改
	DeleteAccount(ctx context.Context, userID uint) (bool, error)
}

type accountService struct {
	db      *gorm.DB
	repos   *repository.Repositories
	janitor *AccountJanitor
}

func NewAccountService(db *gorm.DB, repos *repository.Repositories, janitor *AccountJanitor) AccountService {
	return &accountService{db: db, repos: repos, janitor: janitor}
}

func (s *accountService) DeleteAccount(ctx context.Context, userID uint) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l := ledger{repos: s.repos.WithTx(tx)}

		user, err := l.repos.Users.FindByID(ctx, userID)
		if errors.Is(err, errs.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		likes, err := l.repos.Likes.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, lk := range likes {
			if _, err := l.removeLike(ctx, lk.PostID, userID); err != nil {
				return err
			}
		}

		reactions, err := l.repos.Reactions.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, r := range reactions {
			if _, err := l.removeReaction(ctx, r.PostID, userID, r.Emoji); err != nil {
				return err
			}
		}

		posts, err := l.repos.Posts.FindAllByAuthor(ctx, user.Username)
		if err != nil {
			return err
		}
		for _, p := range posts {
			if err := l.purgePost(ctx, p.ID); err != nil {
				return err
			}
		}

		if _, err := l.repos.Users.Delete(ctx, userID); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		metrics.AccountDeletions.WithLabelValues("error").Inc()
		logger.Error("delete account failed", zap.Uint("user", userID), zap.Error(err))
		return false, fmt.Errorf("delete account %d: %w", userID, err)
	}
	if !deleted {
		metrics.AccountDeletions.WithLabelValues("noop").Inc()
		return false, nil
	}

	metrics.AccountDeletions.WithLabelValues("deleted").Inc()
	logger.Info("account deleted", zap.Uint("user", userID))
	if s.janitor != nil {
		s.janitor.Enqueue(userID)
	}
	return true, nil
}
