package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/microblog/internal/cache"
	"github.com/d60-Lab/microblog/pkg/errs"
	"github.com/d60-Lab/microblog/pkg/logger"
	"github.com/d60-Lab/microblog/pkg/response"
	"github.com/d60-Lab/microblog/pkg/session"
)

const (
	currentUserKey  = "currentUser"
	sessionTokenKey = "sessionToken"
)

// SessionResolver 把会话令牌解析为用户 id
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (uint, error)
}

// UserResolver 按 id 读取用户快照
type UserResolver interface {
	Get(ctx context.Context, id uint) (cache.UserSnapshot, error)
}

// SessionToken 依次从 cookie 与 Authorization: Bearer 中读取令牌
func SessionToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// OptionalAuth 解析会话；失效会话或已注销用户按匿名处理
func OptionalAuth(sessions SessionResolver, users UserResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		uid, err := sessions.Resolve(ctx, token)
		if err != nil {
			if !errors.Is(err, session.ErrInvalidSession) {
				logger.Warn("resolve session failed", zap.Error(err))
			}
			c.Next()
			return
		}

		user, err := users.Get(ctx, uid)
		if err != nil {
			if !errors.Is(err, errs.ErrNotFound) {
				logger.Warn("load session user failed", zap.Uint("user", uid), zap.Error(err))
			}
			c.Next()
			return
		}

		c.Set(currentUserKey, user)
		c.Set(sessionTokenKey, token)
		c.Next()
	}
}

// RequireAuth 必须在 OptionalAuth 之后使用
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			response.Unauthorized(c)
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (cache.UserSnapshot, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return cache.UserSnapshot{}, false
	}
	u, ok := v.(cache.UserSnapshot)
	return u, ok
}

// CurrentToken 返回已验证的会话令牌
func CurrentToken(c *gin.Context) string {
	return c.GetString(sessionTokenKey)
}
