package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/d60-Lab/engagement/internal/model"
)

// Store 聚合所有仓储；Transaction 内的 Store 绑定同一个事务
type Store struct {
	db *gorm.DB

	Users         UserRepository
	Posts         PostRepository
	Likes         LikeRepository
	Comments      CommentRepository
	Follows       FollowRepository
	Notifications NotificationRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Posts:         NewPostRepository(db),
		Likes:         NewLikeRepository(db),
		Comments:      NewCommentRepository(db),
		Follows:       NewFollowRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// Transaction 在一个数据库事务内执行 fn，fn 返回错误则整体回滚
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB 暴露底层连接（迁移、运维命令使用）
func (s *Store) DB() *gorm.DB { return s.db }

// AutoMigrate 初始化表结构
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.Like{},
		&model.Comment{},
		&model.Follow{},
		&model.Notification{},
	); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	return nil
}
