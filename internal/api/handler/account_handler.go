package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/microblog/internal/api/middleware"
	"github.com/d60-Lab/microblog/pkg/logger"
	"github.com/d60-Lab/microblog/pkg/response"
)

type renameRequest struct {
	Username string `json:"username" binding:"required,username"`
}

// Profile 当前用户资料
// @Summary 我的资料与帖子
// @Tags 账号
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	posts, err := h.posts.ListByAuthor(c.Request.Context(), user.Username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"user": user, "posts": posts})
}

// Rename 修改用户名
// @Summary 修改用户名
// @Description 大小写不敏感唯一；与当前用户名仅大小写不同也视为冲突
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body renameRequest true "新用户名"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/profile/username [put]
func (h *Handler) Rename(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, _ := middleware.CurrentUser(c)
	renamed, err := h.identity.Rename(c.Request.Context(), user.ID, req.Username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"user": renamed})
}

// DeleteAccount 注销账号
// @Summary 注销账号
// @Description 删除用户、其帖子及全部点赞与表情，并结束所有会话
// @Tags 账号
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/account [delete]
func (h *Handler) DeleteAccount(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	deleted, err := h.accounts.DeleteAccount(ctx, user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.sessions.Destroy(ctx, middleware.CurrentToken(c)); err != nil {
		logger.Warn("destroy session failed", zap.Uint("user", user.ID), zap.Error(err))
	}
	h.clearSessionCookie(c)
	response.Success(c, gin.H{"deleted": deleted})
}
