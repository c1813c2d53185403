package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/engagement/internal/model"
	"github.com/d60-Lab/engagement/pkg/response"
)

type commentRequest struct {
	Content         string `json:"content"`
	ParentCommentID string `json:"parentCommentId"`
}

// Like 点赞
// @Summary 点赞帖子
// @Tags 互动
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response "AlreadyLiked"
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id}/like [post]
func (h *Handler) Like(c *gin.Context) {
	out, err := h.engagement.Like(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	markPartial(c, out)
	response.Success(c, gin.H{"success": true})
}

// Unlike 取消点赞；未点赞时同样返回成功
// @Summary 取消点赞
// @Tags 互动
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/posts/{id}/like [delete]
func (h *Handler) Unlike(c *gin.Context) {
	if err := h.engagement.Unlike(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"success": true})
}

// CreateComment 发表评论或回复顶层评论
// @Summary 发表评论
// @Tags 互动
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Param request body commentRequest true "评论内容"
// @Success 201 {object} response.Response{data=map[string]interface{}}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	target := model.TopLevel()
	if req.ParentCommentID != "" {
		target = model.ReplyTo(req.ParentCommentID)
	}
	comment, out, err := h.engagement.Comment(c.Request.Context(), actor(c), c.Param("id"), req.Content, target)
	if err != nil {
		response.Error(c, err)
		return
	}
	markPartial(c, out)
	response.Created(c, gin.H{"comment": comment})
}

// ListComments 帖子评论（顶层评论按时间正序，附回复）
// @Summary 评论列表
// @Tags 互动
// @Produce json
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response{data=[]model.CommentThread}
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	threads, err := h.engagement.ListComments(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, threads)
}
