package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/pkg/errs"
)

// UserRepository 用户存储
type UserRepository interface {
	// Create 创建用户，用户名（大小写不敏感）或身份哈希重复时返回 ErrConflict
	Create(ctx context.Context, username, identityHash string) (*model.User, error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
	// FindByUsername 大小写不敏感精确匹配
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByIdentityHash(ctx context.Context, identityHash string) (*model.User, error)
	UpdateUsername(ctx context.Context, id uint, username string) error
	// Delete 返回是否删除了记录
	Delete(ctx context.Context, id uint) (bool, error)
	WithTx(tx *gorm.DB) UserRepository
}

type userRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository { return &userRepository{db: tx} }

func (r *userRepository) Create(ctx context.Context, username, identityHash string) (*model.User, error) {
	u := &model.User{
		Username:     username,
		UsernameKey:  model.UsernameKey(username),
		IdentityHash: identityHash,
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, translate(err, "create user")
	}
	return u, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("user %d", id))
	}
	return &u, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("username_key = ?", model.UsernameKey(username)).First(&u).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("user %q", username))
	}
	return &u, nil
}

func (r *userRepository) FindByIdentityHash(ctx context.Context, identityHash string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("identity_hash = ?", identityHash).First(&u).Error; err != nil {
		return nil, translate(err, "user by identity")
	}
	return &u, nil
}

func (r *userRepository) UpdateUsername(ctx context.Context, id uint, username string) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"username": username, "username_key": model.UsernameKey(username)})
	if res.Error != nil {
		return translate(res.Error, "update username")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, errs.ErrNotFound)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	if res.Error != nil {
		return false, translate(res.Error, "delete user")
	}
	return res.RowsAffected > 0, nil
}
