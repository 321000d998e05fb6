package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/pkg/logger"
)

// UserSnapshot contains the user fields request handlers need on every call.
type UserSnapshot struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"memberSince"`
}

func Snapshot(u *model.User) UserSnapshot {
	return UserSnapshot{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL, CreatedAt: u.CreatedAt}
}

// UserLoader reads a user from the primary store.
type UserLoader func(ctx context.Context, id uint) (*model.User, error)

// UserCache is a read-through Redis cache of user snapshots keyed by id.
// Cache failures degrade to the loader; they never fail the request.
type UserCache struct {
	cache *redis.Client
	ttl   time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func NewUserCache(cache *redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &UserCache{cache: cache, ttl: ttl}
}

// generationTTL bounds how long an invalidation is remembered. It must
// outlive any in-flight load.
const generationTTL = 24 * time.Hour

var errStaleLoad = errors.New("user changed during load")

func userKey(id uint) string { return fmt.Sprintf("user:%d", id) }

// genKey counts invalidations; a load may only be written back if the
// counter did not move while it ran.
func genKey(id uint) string { return fmt.Sprintf("user_gen:%d", id) }

func (c *UserCache) Get(ctx context.Context, id uint, load UserLoader) (UserSnapshot, error) {
	if data, err := c.cache.Get(ctx, userKey(id)).Bytes(); err == nil {
		var snap UserSnapshot
		if uErr := json.Unmarshal(data, &snap); uErr == nil {
			c.hits.Add(1)
			return snap, nil
		}
	}

	c.misses.Add(1)
	gen, genErr := c.generation(ctx, id)
	u, err := load(ctx, id)
	if err != nil {
		return UserSnapshot{}, err
	}
	snap := Snapshot(u)
	if genErr != nil {
		logger.Warn("user cache generation read failed", zap.Uint("user", id), zap.Error(genErr))
		return snap, nil
	}
	if payload, err := json.Marshal(snap); err == nil {
		c.store(ctx, id, gen, payload)
	}
	return snap, nil
}

func (c *UserCache) generation(ctx context.Context, id uint) (int64, error) {
	gen, err := c.cache.Get(ctx, genKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// store writes the snapshot only if no Invalidate ran since gen was read.
func (c *UserCache) store(ctx context.Context, id uint, gen int64, payload []byte) {
	err := c.cache.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey(id)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleLoad
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, userKey(id), payload, c.ttl)
			return nil
		})
		return err
	}, genKey(id))

	switch {
	case err == nil:
	case errors.Is(err, errStaleLoad), errors.Is(err, redis.TxFailedErr):
		logger.Debug("user cache write skipped, user changed during load", zap.Uint("user", id))
	default:
		logger.Warn("user cache set failed", zap.Uint("user", id), zap.Error(err))
	}
}

// Invalidate drops the cached snapshot after a rename or deletion and bumps
// the generation so loads that started earlier are not written back.
func (c *UserCache) Invalidate(ctx context.Context, id uint) {
	_, err := c.cache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(id))
		pipe.Expire(ctx, genKey(id), generationTTL)
		pipe.Del(ctx, userKey(id))
		return nil
	})
	if err != nil {
		logger.Warn("user cache invalidate failed", zap.Uint("user", id), zap.Error(err))
	}
}

// ResetCounters clears recorded hit/miss counters.
func (c *UserCache) ResetCounters() {
	c.hits.Store(0)
	c.misses.Store(0)
}

// Counters reports cache hits and loader calls.
func (c *UserCache) Counters() UserCacheCounters {
	return UserCacheCounters{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// UserCacheCounters summarises cache effectiveness during a run.
type UserCacheCounters struct {
	Hits   int64
	Misses int64
}
