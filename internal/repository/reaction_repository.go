package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/model"
)

// ReactionRepository 表情回应存储
type ReactionRepository interface {
	// Insert 插入回应；(post_id, user_id, emoji) 已存在时返回 ErrConflict
	Insert(ctx context.Context, postID, userID uint, emoji string) error
	Delete(ctx context.Context, postID, userID uint, emoji string) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]*model.Reaction, error)
	ListByPost(ctx context.Context, postID uint) ([]*model.Reaction, error)
	// CountByPost 只统计该帖子的回应，按 emoji 分组
	CountByPost(ctx context.Context, postID uint) ([]model.ReactionCount, error)
	// CountByPosts 批量统计，返回 postID -> 分组计数
	CountByPosts(ctx context.Context, postIDs []uint) (map[uint][]model.ReactionCount, error)
	WithTx(tx *gorm.DB) ReactionRepository
}

type reactionRepository struct{ db *gorm.DB }

func NewReactionRepository(db *gorm.DB) ReactionRepository { return &reactionRepository{db: db} }

func (r *reactionRepository) WithTx(tx *gorm.DB) ReactionRepository {
	return &reactionRepository{db: tx}
}

func (r *reactionRepository) Insert(ctx context.Context, postID, userID uint, emoji string) error {
	re := &model.Reaction{PostID: postID, UserID: userID, Emoji: emoji}
	return translate(r.db.WithContext(ctx).Create(re).Error, "insert reaction")
}

func (r *reactionRepository) Delete(ctx context.Context, postID, userID uint, emoji string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ? AND emoji = ?", postID, userID, emoji).
		Delete(&model.Reaction{})
	if res.Error != nil {
		return false, translate(res.Error, "delete reaction")
	}
	return res.RowsAffected > 0, nil
}

func (r *reactionRepository) ListByUser(ctx context.Context, userID uint) ([]*model.Reaction, error) {
	var res []*model.Reaction
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("post_id").Order("emoji").Find(&res).Error
	return res, translate(err, "reactions by user")
}

func (r *reactionRepository) ListByPost(ctx context.Context, postID uint) ([]*model.Reaction, error) {
	var res []*model.Reaction
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("user_id").Order("emoji").Find(&res).Error
	return res, translate(err, "reactions by post")
}

func (r *reactionRepository) CountByPost(ctx context.Context, postID uint) ([]model.ReactionCount, error) {
	res := []model.ReactionCount{}
	err := r.db.WithContext(ctx).
		Model(&model.Reaction{}).
		Select("emoji, COUNT(*) AS count").
		Where("post_id = ?", postID).
		Group("emoji").
		Order("emoji").
		Scan(&res).Error
	return res, translate(err, "count reactions")
}

func (r *reactionRepository) CountByPosts(ctx context.Context, postIDs []uint) (map[uint][]model.ReactionCount, error) {
	out := make(map[uint][]model.ReactionCount, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		PostID uint
		Emoji  string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Reaction{}).
		Select("post_id, emoji, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id, emoji").
		Order("post_id").Order("emoji").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "count reactions by posts")
	}
	for _, row := range rows {
		out[row.PostID] = append(out[row.PostID], model.ReactionCount{Emoji: row.Emoji, Count: row.Count})
	}
	return out, nil
}
