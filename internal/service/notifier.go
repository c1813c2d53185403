package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/engagement/internal/events"
	"github.com/d60-Lab/engagement/internal/model"
	"github.com/d60-Lab/engagement/internal/repository"
	"github.com/d60-Lab/engagement/pkg/logger"
)

const maxNotificationPage = 50

// UnreadCache 未读数缓存；实现见 internal/cache
type UnreadCache interface {
	Get(ctx context.Context, userID string) (int64, bool, error)
	Version(ctx context.Context, userID string) (int64, error)
	Fill(ctx context.Context, userID string, n, version int64) (bool, error)
	Invalidate(ctx context.Context, userID string) error
}

// EventQueue 事件出口；实现见 internal/events.Relay
type EventQueue interface {
	Enqueue(e events.Event)
}

// Notifier 通知扇出：每次成功的点赞/评论/关注至多产生一条通知，自己对自己不通知
type Notifier struct {
	store  *repository.Store
	cache  UnreadCache
	events EventQueue
	now    func() time.Time
}

// NewNotifier cache 与 events 可为 nil
func NewNotifier(store *repository.Store, cache UnreadCache, events EventQueue) *Notifier {
	return &Notifier{store: store, cache: cache, events: events, now: time.Now}
}

func (n *Notifier) OnLike(ctx context.Context, actorID, postID string) (*model.Notification, error) {
	owner, err := n.store.Posts.AuthorOf(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup owner of post %s: %v", ErrFanout, postID, err)
	}
	return n.deliver(ctx, owner, model.LikePayload{PostID: postID, FromUserID: actorID})
}

func (n *Notifier) OnComment(ctx context.Context, actorID, postID, commentID string) (*model.Notification, error) {
	owner, err := n.store.Posts.AuthorOf(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup owner of post %s: %v", ErrFanout, postID, err)
	}
	return n.deliver(ctx, owner, model.CommentPayload{PostID: postID, CommentID: commentID, FromUserID: actorID})
}

func (n *Notifier) OnFollow(ctx context.Context, actorID, followedID string) (*model.Notification, error) {
	return n.deliver(ctx, followedID, model.FollowPayload{FromUserID: actorID})
}

func (n *Notifier) deliver(ctx context.Context, recipientID string, p model.Payload) (*model.Notification, error) {
	if recipientID == p.Actor() {
		return nil, nil
	}

	notif, err := model.NewNotification(uuid.New().String(), recipientID, p, n.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFanout, err)
	}
	if err := n.store.Notifications.Create(ctx, notif); err != nil {
		return nil, fmt.Errorf("%w: store %s notification: %v", ErrFanout, p.Type(), err)
	}

	if n.cache != nil {
		if err := n.cache.Invalidate(ctx, recipientID); err != nil {
			logger.Warn("invalidate unread cache", zap.String("user", recipientID), zap.Error(err))
		}
	}
	if n.events != nil {
		n.events.Enqueue(eventFor(notif, p))
	}
	return notif, nil
}

func eventFor(notif *model.Notification, p model.Payload) events.Event {
	e := events.Event{Type: string(notif.Type), ActorID: p.Actor(), RecipientID: notif.UserID, At: notif.CreatedAt}
	switch v := p.(type) {
	case model.LikePayload:
		e.Subject, e.PostID = events.SubjectLikeCreated, v.PostID
	case model.CommentPayload:
		e.Subject, e.PostID, e.CommentID = events.SubjectCommentCreated, v.PostID, v.CommentID
	case model.FollowPayload:
		e.Subject = events.SubjectFollowCreated
	}
	return e
}

// List 返回最新通知（倒序），并把本次返回的未读项标记为已读。
// 返回值保留读取前的 read 状态，便于前端区分新通知。
func (n *Notifier) List(ctx context.Context, userID string, limit int) ([]model.NotificationView, error) {
	if limit <= 0 || limit > maxNotificationPage {
		limit = maxNotificationPage
	}
	rows, err := n.store.Notifications.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	views := make([]model.NotificationView, 0, len(rows))
	unread := make([]string, 0, len(rows))
	for _, row := range rows {
		v, err := row.View()
		if err != nil {
			logger.Warn("skip malformed notification", zap.String("id", row.ID), zap.Error(err))
			continue
		}
		views = append(views, v)
		if !row.Read {
			unread = append(unread, row.ID)
		}
	}

	if len(unread) > 0 {
		if _, err := n.store.Notifications.MarkRead(ctx, userID, unread); err != nil {
			return nil, err
		}
		n.invalidate(ctx, userID)
	}
	return views, nil
}

// MarkAllRead 全部标记已读，返回受影响条数
func (n *Notifier) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	cnt, err := n.store.Notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	if cnt > 0 {
		n.invalidate(ctx, userID)
	}
	return cnt, nil
}

func (n *Notifier) invalidate(ctx context.Context, userID string) {
	if n.cache == nil {
		return
	}
	if err := n.cache.Invalidate(ctx, userID); err != nil {
		logger.Warn("invalidate unread cache", zap.String("user", userID), zap.Error(err))
	}
}

// UnreadCount 优先读缓存，未命中回源并回填
func (n *Notifier) UnreadCount(ctx context.Context, userID string) (int64, error) {
	fill := false
	var ver int64
	if n.cache != nil {
		if v, ok, err := n.cache.Get(ctx, userID); err == nil && ok {
			return v, nil
		} else if err != nil {
			logger.Warn("read unread cache", zap.String("user", userID), zap.Error(err))
		}
		// 版本须在读库之前取得
		var err error
		if ver, err = n.cache.Version(ctx, userID); err != nil {
			logger.Warn("read unread cache version", zap.String("user", userID), zap.Error(err))
		} else {
			fill = true
		}
	}
	cnt, err := n.store.Notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	if fill {
		if _, err := n.cache.Fill(ctx, userID, cnt, ver); err != nil {
			logger.Warn("fill unread cache", zap.String("user", userID), zap.Error(err))
		}
	}
	return cnt, nil
}
