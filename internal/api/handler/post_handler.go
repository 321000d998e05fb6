package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/microblog/internal/api/middleware"
	"github.com/d60-Lab/microblog/pkg/response"
)

type createPostRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required,max=10000"`
}

// CreatePost 发帖
// @Summary 发布帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Param request body createPostRequest true "帖子内容"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, _ := middleware.CurrentUser(c)
	post, err := h.posts.Create(c.Request.Context(), user.ID, req.Title, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"post": post})
}

// DeletePost 删帖
// @Summary 删除自己的帖子
// @Tags 帖子
// @Produce json
// @Param id path int true "帖子 ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	user, _ := middleware.CurrentUser(c)
	if err := h.posts.Delete(c.Request.Context(), id, user.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
