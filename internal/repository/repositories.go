package repository

import "gorm.io/gorm"

// Repositories 聚合全部仓储，便于在同一事务内整体切换
type Repositories struct {
	Users     UserRepository
	Posts     PostRepository
	Likes     LikeRepository
	Reactions ReactionRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(db),
		Posts:     NewPostRepository(db),
		Likes:     NewLikeRepository(db),
		Reactions: NewReactionRepository(db),
	}
}

// WithTx 返回绑定到 tx 的仓储集合
func (r *Repositories) WithTx(tx *gorm.DB) *Repositories {
	return &Repositories{
		Users:     r.Users.WithTx(tx),
		Posts:     r.Posts.WithTx(tx),
		Likes:     r.Likes.WithTx(tx),
		Reactions: r.Reactions.WithTx(tx),
	}
}
