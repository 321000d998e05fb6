package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/pkg/errs"
)

// PostRepository 帖子存储
type PostRepository interface {
	Create(ctx context.Context, title, content, authorUsername string) (*model.Post, error)
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	// FindAllByAuthor 按作者用户名（大小写不敏感）查询，新帖在前
	FindAllByAuthor(ctx context.Context, username string) ([]*model.Post, error)
	Delete(ctx context.Context, id uint) (bool, error)
	Count(ctx context.Context) (int64, error)
	// AdjustLikeCount 原子地调整冗余点赞数并返回新值；只允许互动账本调用
	AdjustLikeCount(ctx context.Context, id uint, delta int64) (int64, error)
	// RenameAuthor 作者改名后同步帖子上的冗余用户名；在 users 更新之后调用，author_key 可能已被外键级联改写
	RenameAuthor(ctx context.Context, oldUsername, newUsername string) (int64, error)
	ListByRecency(ctx context.Context, offset, limit int) ([]*model.Post, error)
	// ListByLikes 按 likes 表实际行数排序，LEFT JOIN 保证零赞帖子也出现
	ListByLikes(ctx context.Context, offset, limit int) ([]*model.Post, error)
	WithTx(tx *gorm.DB) PostRepository
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) WithTx(tx *gorm.DB) PostRepository { return &postRepository{db: tx} }

func (r *postRepository) Create(ctx context.Context, title, content, authorUsername string) (*model.Post, error) {
	p := &model.Post{
		Title:     title,
		Content:   content,
		Username:  authorUsername,
		AuthorKey: model.UsernameKey(authorUsername),
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, translate(err, "create post")
	}
	return p, nil
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("post %d", id))
	}
	return &p, nil
}

func (r *postRepository) FindAllByAuthor(ctx context.Context, username string) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Where("author_key = ?", model.UsernameKey(username)).
		Order("created_at DESC").Order("id DESC").
		Find(&res).Error
	if err != nil {
		return nil, translate(err, "posts by author")
	}
	return res, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{})
	if res.Error != nil {
		return false, translate(res.Error, "delete post")
	}
	return res.RowsAffected > 0, nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Count(&cnt).Error; err != nil {
		return 0, translate(err, "count posts")
	}
	return cnt, nil
}

func (r *postRepository) AdjustLikeCount(ctx context.Context, id uint, delta int64) (int64, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&model.Post{}).
		Where("id = ?", id).
		Update("like_count", gorm.Expr("like_count + ?", delta))
	if res.Error != nil {
		return 0, translate(res.Error, "adjust like count")
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("post %d: %w", id, errs.ErrNotFound)
	}
	var count int64
	if err := db.Model(&model.Post{}).Select("like_count").Where("id = ?", id).Scan(&count).Error; err != nil {
		return 0, translate(err, "read like count")
	}
	return count, nil
}

func (r *postRepository) RenameAuthor(ctx context.Context, oldUsername, newUsername string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("author_key IN ?", []string{model.UsernameKey(oldUsername), model.UsernameKey(newUsername)}).
		Updates(map[string]any{"username": newUsername, "author_key": model.UsernameKey(newUsername)})
	if res.Error != nil {
		return 0, translate(res.Error, "rename post author")
	}
	return res.RowsAffected, nil
}

func (r *postRepository) ListByRecency(ctx context.Context, offset, limit int) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	if err != nil {
		return nil, translate(err, "list posts by recency")
	}
	return res, nil
}

func (r *postRepository) ListByLikes(ctx context.Context, offset, limit int) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Select("posts.*").
		Joins("LEFT JOIN likes ON likes.post_id = posts.id").
		Group("posts.id").
		Order("COUNT(likes.post_id) DESC").Order("posts.id DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	if err != nil {
		return nil, translate(err, "list posts by likes")
	}
	return res, nil
}
