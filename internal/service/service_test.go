package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/repository"
	"github.com/d60-Lab/microblog/pkg/database"
)

type fixture struct {
	db    *gorm.DB
	repos *repository.Repositories
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:", 1, 1, gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return &fixture{db: db, repos: repository.NewRepositories(db)}
}

func (f *fixture) user(t *testing.T, name string) *model.User {
	t.Helper()
	u, err := f.repos.Users.Create(context.Background(), name, "hash-"+name)
	require.NoError(t, err)
	return u
}

func (f *fixture) post(t *testing.T, author *model.User, title string) *model.Post {
	t.Helper()
	p, err := f.repos.Posts.Create(context.Background(), title, "content of "+title, author.Username)
	require.NoError(t, err)
	return p
}

func (f *fixture) likeCount(t *testing.T, postID uint) int64 {
	t.Helper()
	p, err := f.repos.Posts.FindByID(context.Background(), postID)
	require.NoError(t, err)
	return p.LikeCount
}

// assertLikeCounts 校验所有帖子的 like_count 与 likes 表一致
func (f *fixture) assertLikeCounts(t *testing.T) {
	t.Helper()
	var rows []struct {
		ID        uint
		LikeCount int64
		Actual    int64
	}
	err := f.db.Raw(`SELECT posts.id, posts.like_count, COUNT(likes.post_id) AS actual
		FROM posts LEFT JOIN likes ON likes.post_id = posts.id
		GROUP BY posts.id, posts.like_count`).Scan(&rows).Error
	require.NoError(t, err)
	for _, r := range rows {
		require.Equalf(t, r.Actual, r.LikeCount, "post %d", r.ID)
	}
}
