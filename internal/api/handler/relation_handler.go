package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/engagement/pkg/response"
)

// Follow 关注用户
// @Summary 关注用户
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param id path string true "被关注用户ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{id}/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	out, err := h.engagement.Follow(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	markPartial(c, out)
	response.Success(c, gin.H{"success": true})
}

// Unfollow 取消关注；未关注时同样返回成功
// @Summary 取消关注
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param id path string true "被关注用户ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/users/{id}/follow [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	if err := h.engagement.Unfollow(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"success": true})
}

// FollowStats 粉丝数、关注数及当前用户是否已关注
// @Summary 关注统计
// @Tags 关系链
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} response.Response{data=model.FollowStats}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{id}/stats [get]
func (h *Handler) FollowStats(c *gin.Context) {
	stats, err := h.engagement.FollowStats(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Param id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, err := h.engagement.ListFollowing(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// ListFollowers 查询某用户的粉丝
// @Summary 查询粉丝列表
// @Tags 关系链
// @Param id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, err := h.engagement.ListFollowers(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}
