package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/engagement/internal/model"
	"github.com/d60-Lab/engagement/internal/repository"
	"github.com/d60-Lab/engagement/pkg/logger"
)

const (
	maxCommentRunes      = 2000
	defaultFanoutTimeout = 5 * time.Second
)

// Outcome 一次互动的附带结果；FanoutErr 非空表示互动成功但通知未送达
type Outcome struct {
	Notification *model.Notification
	FanoutErr    error
}

// Partial 互动已提交但通知扇出失败
func (o Outcome) Partial() bool { return o.FanoutErr != nil }

// EngagementService 互动门面：校验前置条件 → 事务内写台账并改计数 → 尽力而为地扇出通知
type EngagementService interface {
	Like(ctx context.Context, actorID, postID string) (Outcome, error)
	Unlike(ctx context.Context, actorID, postID string) error
	Comment(ctx context.Context, actorID, postID, content string, target model.CommentTarget) (*model.Comment, Outcome, error)
	ListComments(ctx context.Context, viewerID, postID string) ([]model.CommentThread, error)

	Follow(ctx context.Context, actorID, targetID string) (Outcome, error)
	Unfollow(ctx context.Context, actorID, targetID string) error
	FollowStats(ctx context.Context, viewerID, userID string) (*model.FollowStats, error)
	ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]string, error)
	ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]string, error)

	ListNotifications(ctx context.Context, actorID string, limit int) ([]model.NotificationView, error)
	UnreadCount(ctx context.Context, actorID string) (int64, error)
	MarkAllRead(ctx context.Context, actorID string) (int64, error)
}

type engagementService struct {
	store         *repository.Store
	counters      *CounterReconciler
	notifier      *Notifier
	validate      *validator.Validate
	fanoutTimeout time.Duration
}

func NewEngagementService(store *repository.Store, counters *CounterReconciler, notifier *Notifier, fanoutTimeout time.Duration) EngagementService {
	if fanoutTimeout <= 0 {
		fanoutTimeout = defaultFanoutTimeout
	}
	return &engagementService{
		store:         store,
		counters:      counters,
		notifier:      notifier,
		validate:      validator.New(),
		fanoutTimeout: fanoutTimeout,
	}
}

func (s *engagementService) Like(ctx context.Context, actorID, postID string) (Outcome, error) {
	if actorID == "" {
		return Outcome{}, ErrUnauthenticated
	}
	if _, err := s.visiblePost(ctx, actorID, postID); err != nil {
		return Outcome{}, err
	}
	// 快速路径；并发下以唯一索引为准
	liked, err := s.store.Likes.Exists(ctx, actorID, postID)
	if err != nil {
		return Outcome{}, internalError(err)
	}
	if liked {
		return Outcome{}, ErrAlreadyLiked
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Likes.Create(ctx, actorID, postID); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyLiked
			}
			return err
		}
		return s.counters.LikeAdded(ctx, tx, postID)
	})
	if err != nil {
		return Outcome{}, mapStoreError(err, ErrPostNotFound)
	}

	return s.fanOut(ctx, "like", actorID, func(fctx context.Context) (*model.Notification, error) {
		return s.notifier.OnLike(fctx, actorID, postID)
	}), nil
}

// Unlike 幂等：点赞不存在时不改计数，直接成功
func (s *engagementService) Unlike(ctx context.Context, actorID, postID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		removed, err := tx.Likes.Delete(ctx, actorID, postID)
		if err != nil {
			return err
		}
		return s.counters.LikeRemoved(ctx, tx, postID, removed)
	})
	if err != nil {
		return mapStoreError(err, ErrPostNotFound)
	}
	return nil
}

type commentInput struct {
	Content string `validate:"required"`
}

func (s *engagementService) Comment(ctx context.Context, actorID, postID, content string, target model.CommentTarget) (*model.Comment, Outcome, error) {
	if actorID == "" {
		return nil, Outcome{}, ErrUnauthenticated
	}
	content = strings.TrimSpace(content)
	if err := s.validate.Struct(commentInput{Content: content}); err != nil {
		return nil, Outcome{}, ErrEmptyContent
	}
	if len([]rune(content)) > maxCommentRunes {
		return nil, Outcome{}, ErrContentTooLong
	}
	if _, err := s.visiblePost(ctx, actorID, postID); err != nil {
		return nil, Outcome{}, err
	}

	c := &model.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		AuthorID:  actorID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if parentID, ok := target.Parent(); ok {
		parent, err := s.store.Comments.GetByID(ctx, parentID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Outcome{}, ErrInvalidParent
		}
		if err != nil {
			return nil, Outcome{}, internalError(err)
		}
		// 只允许两级：回复必须挂在同一帖子的顶层评论下
		if parent.PostID != postID || !parent.IsTopLevel() {
			return nil, Outcome{}, ErrInvalidParent
		}
		c.ParentCommentID = &parent.ID
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Comments.Create(ctx, c); err != nil {
			return err
		}
		return s.counters.CommentAdded(ctx, tx, postID)
	})
	if err != nil {
		return nil, Outcome{}, mapStoreError(err, ErrPostNotFound)
	}

	out := s.fanOut(ctx, "comment", actorID, func(fctx context.Context) (*model.Notification, error) {
		return s.notifier.OnComment(fctx, actorID, postID, c.ID)
	})
	return c, out, nil
}

// ListComments 与帖子同样受可见性约束
func (s *engagementService) ListComments(ctx context.Context, viewerID, postID string) ([]model.CommentThread, error) {
	if _, err := s.visiblePost(ctx, viewerID, postID); err != nil {
		return nil, err
	}
	threads, err := s.store.Comments.ListThreads(ctx, postID)
	if err != nil {
		return nil, internalError(err)
	}
	return threads, nil
}

func (s *engagementService) ListNotifications(ctx context.Context, actorID string, limit int) ([]model.NotificationView, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	views, err := s.notifier.List(ctx, actorID, limit)
	if err != nil {
		return nil, internalError(err)
	}
	return views, nil
}

func (s *engagementService) UnreadCount(ctx context.Context, actorID string) (int64, error) {
	if actorID == "" {
		return 0, ErrUnauthenticated
	}
	n, err := s.notifier.UnreadCount(ctx, actorID)
	if err != nil {
		return 0, internalError(err)
	}
	return n, nil
}

func (s *engagementService) MarkAllRead(ctx context.Context, actorID string) (int64, error) {
	if actorID == "" {
		return 0, ErrUnauthenticated
	}
	n, err := s.notifier.MarkAllRead(ctx, actorID)
	if err != nil {
		return 0, internalError(err)
	}
	return n, nil
}

// visiblePost FOLLOWERS 可见性的帖子对非关注者视为不存在
func (s *engagementService) visiblePost(ctx context.Context, viewerID, postID string) (*model.Post, error) {
	p, err := s.store.Posts.GetByID(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, internalError(err)
	}
	ok, err := canView(ctx, s.store, viewerID, p)
	if err != nil {
		return nil, internalError(err)
	}
	if !ok {
		return nil, ErrPostNotFound
	}
	return p, nil
}

// fanOut 在与请求取消解耦的上下文中执行扇出；失败只记录，不影响互动结果
func (s *engagementService) fanOut(ctx context.Context, action, actorID string, fn func(context.Context) (*model.Notification, error)) Outcome {
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fanoutTimeout)
	defer cancel()

	notif, err := fn(fctx)
	if err != nil {
		logger.Error("notification fan-out failed",
			zap.String("action", action), zap.String("actor", actorID), zap.Error(err))
		hub := sentry.GetHubFromContext(ctx)
		if hub == nil {
			hub = sentry.CurrentHub()
		}
		hub.CaptureException(err)
		return Outcome{FanoutErr: err}
	}
	return Outcome{Notification: notif}
}

// mapStoreError 将事务错误映射到业务错误；ErrNotFound 映射为 notFound
func mapStoreError(err error, notFound *Error) error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	// 帖子与目标用户已预先校验，外键失败只可能是操作者不存在
	if errors.Is(err, repository.ErrMissingRef) {
		return ErrUnknownActor
	}
	return internalError(err)
}
