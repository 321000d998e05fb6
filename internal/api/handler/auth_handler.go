package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/microblog/internal/api/middleware"
	"github.com/d60-Lab/microblog/internal/cache"
	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/pkg/errs"
	"github.com/d60-Lab/microblog/pkg/logger"
	"github.com/d60-Lab/microblog/pkg/response"
	"github.com/d60-Lab/microblog/pkg/session"
)

const (
	stateCookie = "oauth_state"
	stateMaxAge = 600
)

type registerRequest struct {
	Ticket   string `json:"ticket" binding:"required"`
	Username string `json:"username" binding:"required,username"`
}

// Login 跳转到身份提供方
// @Summary Google 登录
// @Tags 认证
// @Success 307 {string} string "跳转到授权页"
// @Router /auth/google [get]
func (h *Handler) Login(c *gin.Context) {
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateMaxAge, "/auth", "", h.cookie.Secure, true)
	c.Redirect(http.StatusTemporaryRedirect, h.provider.AuthCodeURL(state))
}

// Callback 身份提供方回调；已注册直接登录，否则返回注册票据
// @Summary Google 登录回调
// @Tags 认证
// @Produce json
// @Param code query string true "授权码"
// @Param state query string true "state"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /auth/google/callback [get]
func (h *Handler) Callback(c *gin.Context) {
	state, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		response.Fail(c, http.StatusUnauthorized, "invalid oauth state")
		return
	}
	c.SetCookie(stateCookie, "", -1, "/auth", "", h.cookie.Secure, true)

	ctx := c.Request.Context()
	subject, err := h.provider.Subject(ctx, c.Query("code"))
	if err != nil {
		logger.Warn("oauth exchange failed", zap.String("provider", h.provider.Name()), zap.Error(err))
		response.Fail(c, http.StatusUnauthorized, "authentication failed")
		return
	}
	hash := h.hasher.Hash(h.provider.Name(), subject)

	user, err := h.identity.LoginByIdentity(ctx, hash)
	if errors.Is(err, errs.ErrNotFound) {
		ticket, err := h.sessions.Pending(ctx, hash)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		response.Success(c, gin.H{"registered": false, "ticket": ticket})
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	h.startSession(c, user)
}

// Register 选择用户名完成注册
// @Summary 完成注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册票据与用户名"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()

	hash, err := h.sessions.ClaimPending(ctx, req.Ticket)
	if errors.Is(err, session.ErrTicketNotFound) {
		response.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}

	user, err := h.identity.Register(ctx, req.Username, hash)
	if err != nil {
		// 用户名冲突等可重试错误保留票据
		if errors.Is(err, errs.ErrConflict) || errors.Is(err, errs.ErrInvalid) {
			if rErr := h.sessions.RestorePending(ctx, req.Ticket, hash); rErr != nil {
				logger.Warn("restore ticket failed", zap.Error(rErr))
			}
		}
		response.Error(c, err)
		return
	}
	h.startSession(c, user)
}

// Logout 退出登录
// @Summary 退出登录
// @Tags 认证
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	token := middleware.SessionToken(c, h.cookie.Name)
	if token != "" {
		if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
			logger.Warn("destroy session failed", zap.Error(err))
		}
	}
	h.clearSessionCookie(c)
	response.Success(c, nil)
}

func (h *Handler) startSession(c *gin.Context, user *model.User) {
	token, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.setSessionCookie(c, token, h.sessions.TTL())
	response.Success(c, gin.H{"registered": true, "user": cache.Snapshot(user), "token": token})
}
