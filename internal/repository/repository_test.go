package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/pkg/database"
	"github.com/d60-Lab/microblog/pkg/errs"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:", 1, 1, gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func seedUsers(t *testing.T, db *gorm.DB, names ...string) []*model.User {
	t.Helper()
	users := NewUserRepository(db)
	out := make([]*model.User, len(names))
	for i, name := range names {
		u, err := users.Create(context.Background(), name, "hash-"+name)
		require.NoError(t, err)
		out[i] = u
	}
	return out
}

func TestUserRepository(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	bob, err := repo.Create(ctx, "Bob", "hash-bob")
	require.NoError(t, err)
	assert.NotZero(t, bob.ID)
	assert.Equal(t, "bob", bob.UsernameKey)

	_, err = repo.Create(ctx, "BOB", "hash-other")
	assert.ErrorIs(t, err, errs.ErrConflict)
	_, err = repo.Create(ctx, "robert", "hash-bob")
	assert.ErrorIs(t, err, errs.ErrConflict)

	got, err := repo.FindByUsername(ctx, "bOb")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.ID)

	got, err = repo.FindByIdentityHash(ctx, "hash-bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Username)

	require.NoError(t, repo.UpdateUsername(ctx, bob.ID, "Bobby"))
	got, err = repo.FindByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bobby", got.Username)
	assert.Equal(t, "bobby", got.UsernameKey)

	assert.ErrorIs(t, repo.UpdateUsername(ctx, 999, "ghost"), errs.ErrNotFound)

	deleted, err := repo.Delete(ctx, bob.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, bob.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.FindByID(ctx, bob.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestPostRepository(t *testing.T) {
	db := setupDB(t)
	seeded := seedUsers(t, db, "Alice", "carol", "dave", "erin")
	alice := seeded[0]
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	p1, err := posts.Create(ctx, "first", "hello", "Alice")
	require.NoError(t, err)
	p2, err := posts.Create(ctx, "second", "world", "alice")
	require.NoError(t, err)
	p3, err := posts.Create(ctx, "third", "!", "carol")
	require.NoError(t, err)

	mine, err := posts.FindAllByAuthor(ctx, "ALICE")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, p2.ID, mine[0].ID)

	cnt, err := posts.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, cnt)

	n, err := posts.AdjustLikeCount(ctx, p1.ID, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	_, err = posts.AdjustLikeCount(ctx, 12345, 1)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	dave, erin := seeded[2].ID, seeded[3].ID
	require.NoError(t, likes.Insert(ctx, dave, p3.ID))
	require.NoError(t, likes.Insert(ctx, erin, p3.ID))
	require.NoError(t, likes.Insert(ctx, dave, p1.ID))

	ranked, err := posts.ListByLikes(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 3, "zero-like posts must be listed")
	assert.Equal(t, []uint{p3.ID, p1.ID, p2.ID}, []uint{ranked[0].ID, ranked[1].ID, ranked[2].ID})

	recent, err := posts.ListByRecency(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, p2.ID, recent[0].ID)

	// 用户改名在前，帖子同步在后
	require.NoError(t, users.UpdateUsername(ctx, alice.ID, "Alicia"))
	renamed, err := posts.RenameAuthor(ctx, "alice", "Alicia")
	require.NoError(t, err)
	assert.EqualValues(t, 2, renamed)
	mine, err = posts.FindAllByAuthor(ctx, "alicia")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	assert.Equal(t, "Alicia", mine[0].Username)

	deleted, err := posts.Delete(ctx, p2.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = posts.FindByID(ctx, p2.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestLikeRepository(t *testing.T) {
	db := setupDB(t)
	seeded := seedUsers(t, db, "author", "u1", "u2")
	posts := NewPostRepository(db)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	pa, err := posts.Create(ctx, "a", "a", "author")
	require.NoError(t, err)
	pb, err := posts.Create(ctx, "b", "b", "author")
	require.NoError(t, err)
	u1, u2 := seeded[1].ID, seeded[2].ID

	require.NoError(t, likes.Insert(ctx, u1, pa.ID))
	assert.ErrorIs(t, likes.Insert(ctx, u1, pa.ID), errs.ErrConflict)
	require.NoError(t, likes.Insert(ctx, u1, pb.ID))
	require.NoError(t, likes.Insert(ctx, u2, pa.ID))

	ids, err := likes.LikedPostIDs(ctx, u1, []uint{pa.ID, pb.ID, 999})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{pa.ID, pb.ID}, ids)

	ids, err = likes.LikedPostIDs(ctx, u1, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	cnt, err := likes.CountByPost(ctx, pa.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cnt)

	removed, err := likes.Delete(ctx, u1, pa.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = likes.Delete(ctx, u1, pa.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	byUser, err := likes.ListByUser(ctx, u1)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, pb.ID, byUser[0].PostID)
}

func TestReactionRepository(t *testing.T) {
	db := setupDB(t)
	seeded := seedUsers(t, db, "author", "u1", "u2")
	posts := NewPostRepository(db)
	reactions := NewReactionRepository(db)
	ctx := context.Background()

	pa, err := posts.Create(ctx, "a", "a", "author")
	require.NoError(t, err)
	pb, err := posts.Create(ctx, "b", "b", "author")
	require.NoError(t, err)
	u1, u2 := seeded[1].ID, seeded[2].ID

	require.NoError(t, reactions.Insert(ctx, pa.ID, u1, "🔥"))
	require.NoError(t, reactions.Insert(ctx, pa.ID, u2, "🔥"))
	require.NoError(t, reactions.Insert(ctx, pa.ID, u1, "👍"))
	require.NoError(t, reactions.Insert(ctx, pb.ID, u1, "🔥"))
	assert.ErrorIs(t, reactions.Insert(ctx, pa.ID, u1, "🔥"), errs.ErrConflict)

	counts, err := reactions.CountByPost(ctx, pa.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.ReactionCount{{Emoji: "🔥", Count: 2}, {Emoji: "👍", Count: 1}}, counts)

	empty, err := reactions.CountByPost(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, empty)

	byPost, err := reactions.CountByPosts(ctx, []uint{pa.ID, pb.ID, 999})
	require.NoError(t, err)
	assert.Len(t, byPost[pa.ID], 2)
	assert.Equal(t, []model.ReactionCount{{Emoji: "🔥", Count: 1}}, byPost[pb.ID])
	assert.Empty(t, byPost[999])

	removed, err := reactions.Delete(ctx, pa.ID, u1, "👍")
	require.NoError(t, err)
	assert.True(t, removed)

	mine, err := reactions.ListByUser(ctx, u1)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestForeignKeysRejectOrphans(t *testing.T) {
	db := setupDB(t)
	seeded := seedUsers(t, db, "author", "fan")
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	likes := NewLikeRepository(db)
	reactions := NewReactionRepository(db)
	ctx := context.Background()
	author, fan := seeded[0], seeded[1]

	_, err := posts.Create(ctx, "ghost", "no such author", "nobody")
	assert.ErrorIs(t, err, errs.ErrConflict)

	p, err := posts.Create(ctx, "hello", "world", "author")
	require.NoError(t, err)

	assert.ErrorIs(t, likes.Insert(ctx, fan.ID, 999), errs.ErrConflict)
	assert.ErrorIs(t, likes.Insert(ctx, 999, p.ID), errs.ErrConflict)
	assert.ErrorIs(t, reactions.Insert(ctx, 999, fan.ID, "🔥"), errs.ErrConflict)
	assert.ErrorIs(t, reactions.Insert(ctx, p.ID, 999, "🔥"), errs.ErrConflict)

	require.NoError(t, likes.Insert(ctx, fan.ID, p.ID))
	require.NoError(t, reactions.Insert(ctx, p.ID, fan.ID, "🔥"))

	// 仍被引用的帖子与用户不能删除
	_, err = posts.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, errs.ErrConflict)
	_, err = users.Delete(ctx, fan.ID)
	assert.ErrorIs(t, err, errs.ErrConflict)
	_, err = users.Delete(ctx, author.ID)
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = posts.FindByID(ctx, p.ID)
	require.NoError(t, err)
	cnt, err := likes.CountByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)
}
