// Package session keeps server-side sessions in Redis and hands the client a
// signed token that only carries the session id and the user id.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrTicketNotFound = errors.New("registration ticket not found or expired")
)

const pendingTTL = 10 * time.Minute

// Claims is the payload of the session cookie.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type Store struct {
	rdb    *redis.Client
	secret []byte
	ttl    time.Duration
}

func NewStore(rdb *redis.Client, secret string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Store{rdb: rdb, secret: []byte(secret), ttl: ttl}
}

// TTL is the lifetime of new sessions.
func (s *Store) TTL() time.Duration { return s.ttl }

func sessionKey(sid string) string { return "session:" + sid }
func userSessionsKey(uid uint) string { return fmt.Sprintf("user_sessions:%d", uid) }
func pendingKey(ticket string) string { return "pending:" + ticket }
func formatUserID(uid uint) string { return strconv.FormatUint(uint64(uid), 10) }

// Create starts a session for userID and returns the signed token.
func (s *Store) Create(ctx context.Context, userID uint) (string, error) {
	sid := uuid.NewString()
	now := time.Now()

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, sessionKey(sid), formatUserID(userID), s.ttl)
	pipe.SAdd(ctx, userSessionsKey(userID), sid)
	pipe.Expire(ctx, userSessionsKey(userID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	claims := Claims{
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   formatUserID(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Store) parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || claims.SessionID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Resolve returns the user id of a live session.
func (s *Store) Resolve(ctx context.Context, token string) (uint, error) {
	claims, err := s.parse(token)
	if err != nil {
		return 0, err
	}
	stored, err := s.rdb.Get(ctx, sessionKey(claims.SessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrInvalidSession
	}
	if err != nil {
		return 0, err
	}
	if stored != claims.Subject {
		return 0, ErrInvalidSession
	}
	uid, err := strconv.ParseUint(stored, 10, 64)
	if err != nil {
		return 0, ErrInvalidSession
	}
	return uint(uid), nil
}

// Destroy ends the session carried by token. Unknown sessions are ignored.
func (s *Store) Destroy(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return nil
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, sessionKey(claims.SessionID))
	if uid, err := strconv.ParseUint(claims.Subject, 10, 64); err == nil {
		pipe.SRem(ctx, userSessionsKey(uint(uid)), claims.SessionID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// RevokeUser ends every session of userID.
func (s *Store) RevokeUser(ctx context.Context, userID uint) error {
	sids, err := s.rdb.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	keys := make([]string, 0, len(sids)+1)
	for _, sid := range sids {
		keys = append(keys, sessionKey(sid))
	}
	keys = append(keys, userSessionsKey(userID))
	return s.rdb.Del(ctx, keys...).Err()
}

// Pending parks an identity hash that has no account yet and returns a
// single-use ticket for the registration step.
func (s *Store) Pending(ctx context.Context, identityHash string) (string, error) {
	ticket := uuid.NewString()
	if err := s.rdb.Set(ctx, pendingKey(ticket), identityHash, pendingTTL).Err(); err != nil {
		return "", err
	}
	return ticket, nil
}

// ClaimPending consumes a ticket created by Pending.
func (s *Store) ClaimPending(ctx context.Context, ticket string) (string, error) {
	hash, err := s.rdb.GetDel(ctx, pendingKey(ticket)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTicketNotFound
	}
	return hash, err
}

// RestorePending puts a claimed ticket back, used when registration fails on
// a recoverable error such as a taken username.
func (s *Store) RestorePending(ctx context.Context, ticket, identityHash string) error {
	return s.rdb.Set(ctx, pendingKey(ticket), identityHash, pendingTTL).Err()
}
