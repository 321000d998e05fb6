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
)

const (
	maxTitleLength   = 200
	maxContentLength = 10000
)

// PostService 发帖与删帖
type PostService interface {
	Create(ctx context.Context, authorID uint, title, content string) (*model.Post, error)
	Get(ctx context.Context, id uint) (*model.Post, error)
	// Delete 只有作者本人可以删除，连同帖子上的点赞与表情
	Delete(ctx context.Context, postID, actorID uint) error
	ListByAuthor(ctx context.Context, username string) ([]*model.Post, error)
}

type postService struct {
	db    *gorm.DB
	repos *repository.Repositories
}

func NewPostService(db *gorm.DB, repos *repository.Repositories) PostService {
	return &postService{db: db, repos: repos}
}

func (s *postService) Create(ctx context.Context, authorID uint, title, content string) (*model.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("title and content are required: %w", errs.ErrInvalid)
	}
	if utf8.RuneCountInString(title) > maxTitleLength || utf8.RuneCountInString(content) > maxContentLength {
		return nil, fmt.Errorf("post too long: %w", errs.ErrInvalid)
	}

	author, err := s.repos.Users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.repos.Posts.Create(ctx, title, content, author.Username)
}

func (s *postService) Get(ctx context.Context, id uint) (*model.Post, error) {
	return s.repos.Posts.FindByID(ctx, id)
}

func (s *postService) Delete(ctx context.Context, postID, actorID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l := ledger{repos: s.repos.WithTx(tx)}
		post, err := l.repos.Posts.FindByID(ctx, postID)
		if err != nil {
			return err
		}
		actor, err := l.repos.Users.FindByID(ctx, actorID)
		if err != nil {
			return err
		}
		if actor.UsernameKey != post.AuthorKey {
			return fmt.Errorf("post %d belongs to another user: %w", postID, errs.ErrForbidden)
		}
		return l.purgePost(ctx, postID)
	})
}

func (s *postService) ListByAuthor(ctx context.Context, username string) ([]*model.Post, error) {
	return s.repos.Posts.FindAllByAuthor(ctx, username)
}
