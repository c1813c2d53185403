package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/engagement/pkg/response"
)

// ListNotifications 最新通知（最多 50 条），返回的未读通知随即置为已读
// @Summary 通知列表
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Param limit query int false "条数" default(50)
// @Success 200 {object} response.Response{data=[]model.NotificationView}
// @Failure 401 {object} response.Response
// @Router /api/v1/notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	list, err := h.engagement.ListNotifications(c.Request.Context(), actor(c), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// UnreadCount 未读通知数
// @Summary 未读通知数
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=map[string]int64}
// @Failure 401 {object} response.Response
// @Router /api/v1/notifications/unread-count [get]
func (h *Handler) UnreadCount(c *gin.Context) {
	n, err := h.engagement.UnreadCount(c.Request.Context(), actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"count": n})
}

// MarkAllRead 全部标记为已读
// @Summary 全部已读
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=map[string]int64}
// @Failure 401 {object} response.Response
// @Router /api/v1/notifications/read-all [post]
func (h *Handler) MarkAllRead(c *gin.Context) {
	n, err := h.engagement.MarkAllRead(c.Request.Context(), actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"updated": n})
}
