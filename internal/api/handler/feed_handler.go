package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/microblog/internal/api/middleware"
	"github.com/d60-Lab/microblog/internal/service"
	"github.com/d60-Lab/microblog/pkg/response"
)

type feedQuery struct {
	Sort string `form:"sort"`
	Page int    `form:"page"`
}

// ListFeed 首页帖子列表
// @Summary 分页帖子列表
// @Description 按时间或点赞数排序，每页 9 条；登录用户会带上是否已点赞
// @Tags 帖子
// @Produce json
// @Param sort query string false "recency | likes"
// @Param page query int false "页码，从 1 开始"
// @Success 200 {object} service.FeedPage
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/feed [get]
func (h *Handler) ListFeed(c *gin.Context) {
	var q feedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid page")
		return
	}

	fq := service.FeedQuery{Sort: q.Sort, Page: q.Page}
	if u, ok := middleware.CurrentUser(c); ok {
		fq.ViewerID = u.ID
	}
	page, err := h.feed.ListFeed(c.Request.Context(), fq)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"posts":       page.Posts,
		"currentPage": page.Page,
		"totalPages":  page.TotalPages,
		"sort":        page.Sort,
	})
}
