package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/model"
)

// LikeRepository 点赞关系存储
type LikeRepository interface {
	// Insert 插入点赞；(user_id, post_id) 已存在时返回 ErrConflict
	Insert(ctx context.Context, userID, postID uint) error
	// Delete 返回是否真的删除了一行
	Delete(ctx context.Context, userID, postID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]*model.Like, error)
	ListByPost(ctx context.Context, postID uint) ([]*model.Like, error)
	CountByPost(ctx context.Context, postID uint) (int64, error)
	// LikedPostIDs 返回 postIDs 中被 userID 点赞过的子集
	LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error)
	WithTx(tx *gorm.DB) LikeRepository
}

type likeRepository struct{ db *gorm.DB }

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) WithTx(tx *gorm.DB) LikeRepository { return &likeRepository{db: tx} }

func (r *likeRepository) Insert(ctx context.Context, userID, postID uint) error {
	l := &model.Like{UserID: userID, PostID: postID}
	return translate(r.db.WithContext(ctx).Create(l).Error, "insert like")
}

func (r *likeRepository) Delete(ctx context.Context, userID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Like{})
	if res.Error != nil {
		return false, translate(res.Error, "delete like")
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) ListByUser(ctx context.Context, userID uint) ([]*model.Like, error) {
	var res []*model.Like
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("post_id").Find(&res).Error
	return res, translate(err, "likes by user")
}

func (r *likeRepository) ListByPost(ctx context.Context, postID uint) ([]*model.Like, error) {
	var res []*model.Like
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("user_id").Find(&res).Error
	return res, translate(err, "likes by post")
}

func (r *likeRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, translate(err, "count likes")
}

func (r *likeRepository) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	return ids, translate(err, "liked post ids")
}
