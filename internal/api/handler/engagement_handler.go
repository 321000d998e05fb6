package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/microblog/internal/api/middleware"
	"github.com/d60-Lab/microblog/pkg/response"
)

type reactRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// ToggleLike 点赞/取消点赞
// @Summary 切换点赞
// @Tags 互动
// @Produce json
// @Param id path int true "帖子 ID"
// @Success 200 {object} map[string]interface{} "{status, action, likeCounter}"
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/posts/{id}/like [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	user, _ := middleware.CurrentUser(c)
	res, err := h.engagement.ToggleLike(c.Request.Context(), id, user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"action": res.Action, "likeCounter": res.Likes})
}

// ToggleReaction 添加/移除表情
// @Summary 切换表情
// @Tags 互动
// @Accept json
// @Produce json
// @Param id path int true "帖子 ID"
// @Param request body reactRequest true "emoji"
// @Success 200 {object} map[string]interface{} "{status, action, reactions}"
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/posts/{id}/react [post]
func (h *Handler) ToggleReaction(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	var req reactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, _ := middleware.CurrentUser(c)
	res, err := h.engagement.ToggleReaction(c.Request.Context(), id, user.ID, req.Emoji)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"action": res.Action, "reactions": res.Reactions})
}

// ListReactions 帖子表情汇总
// @Summary 表情汇总
// @Tags 互动
// @Produce json
// @Param id path int true "帖子 ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/posts/{id}/reactions [get]
func (h *Handler) ListReactions(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	counts, err := h.engagement.Reactions(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"reactions": counts})
}
