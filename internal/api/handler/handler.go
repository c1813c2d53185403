package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/engagement/internal/middleware"
	"github.com/d60-Lab/engagement/internal/service"
)

// NotificationStatusHeader 互动已成功但通知未送达时置为 failed
const NotificationStatusHeader = "X-Notification-Status"

type Handler struct {
	engagement service.EngagementService
	posts      service.PostService
}

func NewHandler(engagement service.EngagementService, posts service.PostService) *Handler {
	return &Handler{engagement: engagement, posts: posts}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return page, pageSize
}

// markPartial 通知扇出失败不影响主操作的成功响应
func markPartial(c *gin.Context, out service.Outcome) {
	if out.Partial() {
		c.Header(NotificationStatusHeader, "failed")
	}
}

func actor(c *gin.Context) string { return middleware.UserID(c) }
