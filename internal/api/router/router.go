package router

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/engagement/config"
	_ "github.com/d60-Lab/engagement/docs"
	"github.com/d60-Lab/engagement/internal/api/handler"
	"github.com/d60-Lab/engagement/internal/middleware"
)

// Setup 组装路由与中间件
func Setup(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	secret := []byte(cfg.JWT.Secret)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	v1 := r.Group("/api/v1")

	// 公开读接口：带令牌时可看到 FOLLOWERS 帖子及 isFollowing
	public := v1.Group("", middleware.OptionalAuth(secret, cfg.JWT.Issuer))
	{
		public.GET("/posts/:id", h.GetPost)
		public.GET("/posts/:id/comments", h.ListComments)
		public.GET("/users/:id/stats", h.FollowStats)
		public.GET("/users/:id/following", h.ListFollowing)
		public.GET("/users/:id/followers", h.ListFollowers)
	}

	authed := v1.Group("", middleware.Auth(secret, cfg.JWT.Issuer), limiter.Middleware())
	{
		authed.POST("/posts", h.CreatePost)
		authed.GET("/feed", h.Feed)

		authed.POST("/posts/:id/like", h.Like)
		authed.DELETE("/posts/:id/like", h.Unlike)
		authed.POST("/posts/:id/comments", h.CreateComment)

		authed.POST("/users/:id/follow", h.Follow)
		authed.DELETE("/users/:id/follow", h.Unfollow)

		authed.GET("/notifications", h.ListNotifications)
		authed.GET("/notifications/unread-count", h.UnreadCount)
		authed.POST("/notifications/read-all", h.MarkAllRead)
	}

	return r
}
