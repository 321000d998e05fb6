package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/repository"
)

const (
	SortRecency = "recency"
	SortLikes   = "likes"

	DefaultPageSize = 9
)

// FeedQuery 首页查询参数；ViewerID 为 0 表示匿名
type FeedQuery struct {
	ViewerID uint
	Sort     string
	Page     int
	PageSize int
}

// FeedPost 带当前用户点赞标记的帖子
type FeedPost struct {
	*model.Post
	LikedByViewer bool                  `json:"likedByViewer"`
	Reactions     []model.ReactionCount `json:"reactions"`
}

type FeedPage struct {
	Posts      []FeedPost `json:"posts"`
	Page       int        `json:"currentPage"`
	TotalPages int        `json:"totalPages"`
	Sort       string     `json:"sort"`
}

// FeedService 分页首页
type FeedService interface {
	ListFeed(ctx context.Context, q FeedQuery) (*FeedPage, error)
}

type feedService struct {
	db       *gorm.DB
	repos    *repository.Repositories
	pageSize int
}

func NewFeedService(db *gorm.DB, repos *repository.Repositories, pageSize int) FeedService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &feedService{db: db, repos: repos, pageSize: pageSize}
}

// NormalizeSort 未知排序方式按时间倒序处理
func NormalizeSort(sort string) string {
	if sort == SortLikes {
		return SortLikes
	}
	return SortRecency
}

// readOptions postgres 下用可重复读只读事务，保证总页数与本页内容来自同一快照；
// sqlite 单连接，普通事务即可
func (s *feedService) readOptions() *sql.TxOptions {
	if s.db.Dialector.Name() == "postgres" {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return nil
}

func (s *feedService) ListFeed(ctx context.Context, q FeedQuery) (*FeedPage, error) {
	sort := NormalizeSort(q.Sort)
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size <= 0 {
		size = s.pageSize
	}

	res := &FeedPage{Posts: []FeedPost{}, Page: page, Sort: sort}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)

		total, err := repos.Posts.Count(ctx)
		if err != nil {
			return fmt.Errorf("count feed: %w", err)
		}
		res.TotalPages = int((total + int64(size) - 1) / int64(size))
		if page > res.TotalPages {
			return nil
		}

		offset := (page - 1) * size
		var posts []*model.Post
		if sort == SortLikes {
			posts, err = repos.Posts.ListByLikes(ctx, offset, size)
		} else {
			posts, err = repos.Posts.ListByRecency(ctx, offset, size)
		}
		if err != nil {
			return fmt.Errorf("list feed: %w", err)
		}
		if len(posts) == 0 {
			return nil
		}

		ids := lo.Map(posts, func(p *model.Post, _ int) uint { return p.ID })
		liked := map[uint]bool{}
		if q.ViewerID != 0 {
			likedIDs, err := repos.Likes.LikedPostIDs(ctx, q.ViewerID, ids)
			if err != nil {
				return fmt.Errorf("viewer likes: %w", err)
			}
			liked = lo.Associate(likedIDs, func(id uint) (uint, bool) { return id, true })
		}
		reactions, err := repos.Reactions.CountByPosts(ctx, ids)
		if err != nil {
			return fmt.Errorf("feed reactions: %w", err)
		}

		res.Posts = lo.Map(posts, func(p *model.Post, _ int) FeedPost {
			counts := reactions[p.ID]
			if counts == nil {
				counts = []model.ReactionCount{}
			}
			return FeedPost{Post: p, LikedByViewer: liked[p.ID], Reactions: counts}
		})
		return nil
	}, s.readOptions())
	if err != nil {
		return nil, err
	}
	return res, nil
}
