package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/microblog/internal/auth"
	"github.com/d60-Lab/microblog/internal/service"
	"github.com/d60-Lab/microblog/pkg/response"
	"github.com/d60-Lab/microblog/pkg/session"
)

// HealthCheck 健康检查项
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// CookieOptions 会话 cookie 配置
type CookieOptions struct {
	Name   string
	Secure bool
}

// Deps 构造 Handler 需要的依赖
type Deps struct {
	Identity   service.IdentityService
	Posts      service.PostService
	Engagement service.EngagementService
	Feed       service.FeedService
	Accounts   service.AccountService
	Sessions   *session.Store
	Provider   auth.Provider
	Hasher     *auth.IdentityHasher
	Cookie     CookieOptions
	Health     []HealthCheck
}

type Handler struct {
	identity   service.IdentityService
	posts      service.PostService
	engagement service.EngagementService
	feed       service.FeedService
	accounts   service.AccountService
	sessions   *session.Store
	provider   auth.Provider
	hasher     *auth.IdentityHasher
	cookie     CookieOptions
	health     []HealthCheck
}

func NewHandler(d Deps) *Handler {
	if d.Cookie.Name == "" {
		d.Cookie.Name = "microblog_session"
	}
	return &Handler{
		identity:   d.Identity,
		posts:      d.Posts,
		engagement: d.Engagement,
		feed:       d.Feed,
		accounts:   d.Accounts,
		sessions:   d.Sessions,
		provider:   d.Provider,
		hasher:     d.Hasher,
		cookie:     d.Cookie,
		health:     d.Health,
	}
}

// CookieName 会话 cookie 名称
func (h *Handler) CookieName() string { return h.cookie.Name }

// Sessions 会话存储
func (h *Handler) Sessions() *session.Store { return h.sessions }

// Identity 身份服务
func (h *Handler) Identity() service.IdentityService { return h.identity }

func (h *Handler) setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, int(ttl.Seconds()), "/", "", h.cookie.Secure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
}

func postIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid post id")
		return 0, false
	}
	return uint(id), true
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /healthz [get]
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true
	for _, hc := range h.health {
		if err := hc.Check(ctx); err != nil {
			checks[hc.Name] = err.Error()
			healthy = false
			continue
		}
		checks[hc.Name] = "ok"
	}
	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": response.StatusError, "checks": checks})
		return
	}
	response.Success(c, gin.H{"checks": checks})
}
