package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/engagement/internal/model"
	"github.com/d60-Lab/engagement/internal/service"
	"github.com/d60-Lab/engagement/pkg/response"
)

type createPostRequest struct {
	Content    string   `json:"content" binding:"required"`
	Tags       []string `json:"tags"`
	Visibility string   `json:"visibility"`
}

// CreatePost 发帖
// @Summary 发帖
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPostRequest true "帖子内容"
// @Success 201 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.posts.Publish(c.Request.Context(), actor(c), service.CreatePostInput{
		Content:    req.Content,
		Tags:       req.Tags,
		Visibility: model.Visibility(req.Visibility),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, post)
}

// GetPost 帖子详情
// @Summary 帖子详情
// @Tags 帖子
// @Produce json
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

// Feed 自己及关注的人的帖子，按时间倒序
// @Summary 时间线
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/feed [get]
func (h *Handler) Feed(c *gin.Context) {
	page, pageSize := pageParams(c)
	posts, err := h.posts.Feed(c.Request.Context(), actor(c), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": posts})
}
