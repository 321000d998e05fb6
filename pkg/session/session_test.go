package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStore(rdb, "test-secret", time.Hour), mr
}

func TestCreateResolveDestroy(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	token, err := s.Create(ctx, 42)
	require.NoError(t, err)

	uid, err := s.Resolve(ctx, token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, uid)

	require.NoError(t, s.Destroy(ctx, token))
	_, err = s.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestResolveRejectsForeignSignature(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	other := NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "other-secret", time.Hour)
	token, err := other.Create(ctx, 1)
	require.NoError(t, err)

	_, err = s.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = s.Resolve(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionExpires(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	token, err := s.Create(ctx, 7)
	require.NoError(t, err)
	mr.FastForward(2 * time.Hour)

	_, err = s.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestRevokeUser(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	t1, err := s.Create(ctx, 5)
	require.NoError(t, err)
	t2, err := s.Create(ctx, 5)
	require.NoError(t, err)
	t3, err := s.Create(ctx, 6)
	require.NoError(t, err)

	require.NoError(t, s.RevokeUser(ctx, 5))

	_, err = s.Resolve(ctx, t1)
	assert.ErrorIs(t, err, ErrInvalidSession)
	_, err = s.Resolve(ctx, t2)
	assert.ErrorIs(t, err, ErrInvalidSession)
	uid, err := s.Resolve(ctx, t3)
	require.NoError(t, err)
	assert.EqualValues(t, 6, uid)

	require.NoError(t, s.RevokeUser(ctx, 999))
}

func TestPendingTicketIsSingleUse(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	ticket, err := s.Pending(ctx, "abc")
	require.NoError(t, err)

	hash, err := s.ClaimPending(ctx, ticket)
	require.NoError(t, err)
	assert.Equal(t, "abc", hash)

	_, err = s.ClaimPending(ctx, ticket)
	assert.ErrorIs(t, err, ErrTicketNotFound)

	require.NoError(t, s.RestorePending(ctx, ticket, "abc"))
	hash, err = s.ClaimPending(ctx, ticket)
	require.NoError(t, err)
	assert.Equal(t, "abc", hash)
}
