package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/repository"
	"github.com/d60-Lab/microblog/pkg/errs"
	"github.com/d60-Lab/microblog/pkg/metrics"
)

const (
	ActionLiked   = "liked"
	ActionUnliked = "unliked"
	ActionAdded   = "added"
	ActionRemoved = "removed"

	maxEmojiLength = 64
)

// LikeResult 点赞切换结果
type LikeResult struct {
	Action string `json:"action"`
	Likes  int64  `json:"likeCounter"`
}

// ReactionResult 表情切换结果，附带帖子当前的表情汇总
type ReactionResult struct {
	Action    string                `json:"action"`
	Reactions []model.ReactionCount `json:"reactions"`
}

// EngagementService 点赞与表情
type EngagementService interface {
	ToggleLike(ctx context.Context, postID, userID uint) (*LikeResult, error)
	ToggleReaction(ctx context.Context, postID, userID uint, emoji string) (*ReactionResult, error)
	Reactions(ctx context.Context, postID uint) ([]model.ReactionCount, error)
}

type engagementService struct {
	db    *gorm.DB
	repos *repository.Repositories
}

func NewEngagementService(db *gorm.DB, repos *repository.Repositories) EngagementService {
	return &engagementService{db: db, repos: repos}
}

func (s *engagementService) ToggleLike(ctx context.Context, postID, userID uint) (*LikeResult, error) {
	var res *LikeResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l := ledger{repos: s.repos.WithTx(tx)}
		if err := l.requireUserAndPost(ctx, postID, userID); err != nil {
			return err
		}

		removed, err := l.removeLike(ctx, postID, userID)
		if err != nil {
			return err
		}
		if removed {
			post, err := l.repos.Posts.FindByID(ctx, postID)
			if err != nil {
				return err
			}
			res = &LikeResult{Action: ActionUnliked, Likes: post.LikeCount}
			return nil
		}

		count, err := l.addLike(ctx, postID, userID)
		if err != nil {
			return err
		}
		res = &LikeResult{Action: ActionLiked, Likes: count}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("toggle like on post %d: %w", postID, err)
	}
	metrics.EngagementToggles.WithLabelValues("like", res.Action).Inc()
	return res, nil
}

func (s *engagementService) ToggleReaction(ctx context.Context, postID, userID uint, emoji string) (*ReactionResult, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" || utf8.RuneCountInString(emoji) > maxEmojiLength {
		return nil, fmt.Errorf("emoji %q: %w", emoji, errs.ErrInvalid)
	}

	var res *ReactionResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l := ledger{repos: s.repos.WithTx(tx)}
		if err := l.requireUserAndPost(ctx, postID, userID); err != nil {
			return err
		}

		action := ActionRemoved
		removed, err := l.removeReaction(ctx, postID, userID, emoji)
		if err != nil {
			return err
		}
		if !removed {
			if err := l.repos.Reactions.Insert(ctx, postID, userID, emoji); err != nil {
				return err
			}
			action = ActionAdded
		}

		counts, err := l.repos.Reactions.CountByPost(ctx, postID)
		if err != nil {
			return err
		}
		res = &ReactionResult{Action: action, Reactions: counts}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("toggle reaction on post %d: %w", postID, err)
	}
	metrics.EngagementToggles.WithLabelValues("reaction", res.Action).Inc()
	return res, nil
}

func (s *engagementService) Reactions(ctx context.Context, postID uint) ([]model.ReactionCount, error) {
	if _, err := s.repos.Posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.repos.Reactions.CountByPost(ctx, postID)
}
