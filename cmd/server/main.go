package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/engagement/config"
	"github.com/d60-Lab/engagement/internal/api/handler"
	"github.com/d60-Lab/engagement/internal/api/router"
	"github.com/d60-Lab/engagement/internal/cache"
	"github.com/d60-Lab/engagement/internal/events"
	"github.com/d60-Lab/engagement/internal/repository"
	"github.com/d60-Lab/engagement/internal/service"
	"github.com/d60-Lab/engagement/pkg/database"
	"github.com/d60-Lab/engagement/pkg/logger"
	"github.com/d60-Lab/engagement/pkg/tracing"
)

// @title Campus Engagement API
// @version 1.0
// @description 点赞、评论、关注与通知
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.Init(ctx, cfg.Tracing)
		if err != nil {
			logger.Warn("tracing init failed", zap.Error(err))
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.L().Fatal("connect database", zap.Error(err))
	}
	if err := repository.AutoMigrate(db); err != nil {
		logger.L().Fatal("migrate", zap.Error(err))
	}
	store := repository.NewStore(db)

	// 未读数缓存（可选）
	var unread service.UnreadCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, unread counts served from database", zap.Error(err))
		} else {
			unread = cache.NewUnreadCounter(rdb, cfg.Redis.TTL)
			defer rdb.Close()
		}
	}

	// 事件转发；未启用 NATS 时丢弃
	var sink events.Sink = events.DiscardSink{}
	if cfg.NATS.Enabled {
		nc, err := events.Connect(cfg.NATS.URL)
		if err != nil {
			logger.Warn("nats unavailable, events discarded", zap.Error(err))
		} else {
			sink = nc
			defer nc.Drain()
		}
	}
	relay := events.NewRelay(sink, cfg.NATS.QueueSize)
	stopRelay := relay.Start(cfg.NATS.Workers)

	notifier := service.NewNotifier(store, unread, relay)
	engagement := service.NewEngagementService(store, service.NewCounterReconciler(store), notifier, cfg.Server.FanoutTimeout)
	posts := service.NewPostService(store)

	r := router.Setup(cfg, handler.NewHandler(engagement, posts))
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := stopRelay(shutdownCtx); err != nil {
		logger.Warn("relay drain incomplete", zap.Error(err), zap.Int("pending", relay.QueueLen()))
	}
}
