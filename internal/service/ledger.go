package service

import (
	"context"

	"github.com/d60-Lab/microblog/internal/repository"
)

// ledger 在调用方给定的事务内变更点赞与表情；切换、删帖、注销共用同一套删除路径
type ledger struct {
	repos *repository.Repositories
}

// removeLike 删除点赞并同步 like_count，不存在时返回 false
func (l ledger) removeLike(ctx context.Context, postID, userID uint) (bool, error) {
	removed, err := l.repos.Likes.Delete(ctx, userID, postID)
	if err != nil || !removed {
		return false, err
	}
	if _, err := l.repos.Posts.AdjustLikeCount(ctx, postID, -1); err != nil {
		return false, err
	}
	return true, nil
}

// addLike 新增点赞并同步 like_count；重复点赞返回 ErrConflict
func (l ledger) addLike(ctx context.Context, postID, userID uint) (int64, error) {
	if err := l.repos.Likes.Insert(ctx, userID, postID); err != nil {
		return 0, err
	}
	return l.repos.Posts.AdjustLikeCount(ctx, postID, 1)
}

func (l ledger) removeReaction(ctx context.Context, postID, userID uint, emoji string) (bool, error) {
	return l.repos.Reactions.Delete(ctx, postID, userID, emoji)
}

// purgePost 删除帖子及其全部点赞与表情
func (l ledger) purgePost(ctx context.Context, postID uint) error {
	likes, err := l.repos.Likes.ListByPost(ctx, postID)
	if err != nil {
		return err
	}
	for _, lk := range likes {
		if _, err := l.removeLike(ctx, postID, lk.UserID); err != nil {
			return err
		}
	}

	reactions, err := l.repos.Reactions.ListByPost(ctx, postID)
	if err != nil {
		return err
	}
	for _, r := range reactions {
		if _, err := l.removeReaction(ctx, postID, r.UserID, r.Emoji); err != nil {
			return err
		}
	}

	_, err = l.repos.Posts.Delete(ctx, postID)
	return err
}

// requireUserAndPost 校验互动双方都存在
func (l ledger) requireUserAndPost(ctx context.Context, postID, userID uint) error {
	if _, err := l.repos.Users.FindByID(ctx, userID); err != nil {
		return err
	}
	_, err := l.repos.Posts.FindByID(ctx, postID)
	return err
}
