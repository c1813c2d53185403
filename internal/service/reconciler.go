package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/d60-Lab/engagement/internal/repository"
	"github.com/d60-Lab/engagement/pkg/logger"
)

// CounterReconciler 维护帖子上的冗余计数。
// 计数变更必须与台账写入处于同一事务（tx 为事务内 Store），不做事后重算。
type CounterReconciler struct {
	store *repository.Store
}

func NewCounterReconciler(store *repository.Store) *CounterReconciler {
	return &CounterReconciler{store: store}
}

func (r *CounterReconciler) LikeAdded(ctx context.Context, tx *repository.Store, postID string) error {
	return tx.Posts.AddLikes(ctx, postID, 1)
}

// LikeRemoved 只按实际删除行数递减，重复取消点赞不会把计数减成负数
func (r *CounterReconciler) LikeRemoved(ctx context.Context, tx *repository.Store, postID string, removed int64) error {
	if removed <= 0 {
		return nil
	}
	return tx.Posts.AddLikes(ctx, postID, -removed)
}

func (r *CounterReconciler) CommentAdded(ctx context.Context, tx *repository.Store, postID string) error {
	return tx.Posts.AddComments(ctx, postID, 1)
}

// FollowCounts 粉丝数/关注数实时统计，不做缓存
func (r *CounterReconciler) FollowCounts(ctx context.Context, userID string) (followers, following int64, err error) {
	if followers, err = r.store.Follows.CountFollowers(ctx, userID); err != nil {
		return 0, 0, err
	}
	if following, err = r.store.Follows.CountFollowings(ctx, userID); err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

// Drift 计数与台账不一致的帖子
type Drift struct {
	PostID         string `json:"postId"`
	LikesCount     int64  `json:"likesCount"`
	LikesActual    int64  `json:"likesActual"`
	CommentsCount  int64  `json:"commentsCount"`
	CommentsActual int64  `json:"commentsActual"`
}

// Audit 逐帖重算并报告偏差（运维命令使用，不在请求路径上）
func (r *CounterReconciler) Audit(ctx context.Context, batch int) ([]Drift, error) {
	if batch <= 0 {
		batch = 500
	}
	var (
		drifts []Drift
		after  string
	)
	for {
		ids, err := r.store.Posts.ListIDs(ctx, after, batch)
		if err != nil {
			return nil, fmt.Errorf("list posts: %w", err)
		}
		for _, id := range ids {
			d, ok, err := r.check(ctx, r.store, id, false)
			if err != nil {
				return nil, err
			}
			if ok {
				drifts = append(drifts, d)
			}
		}
		if len(ids) < batch {
			return drifts, nil
		}
		after = ids[len(ids)-1]
	}
}

// Repair 在事务内重新核对并覆盖计数，返回修复条数
func (r *CounterReconciler) Repair(ctx context.Context, drifts []Drift) (int, error) {
	fixed := 0
	for _, d := range drifts {
		var (
			cur     Drift
			changed bool
		)
		err := r.store.Transaction(ctx, func(tx *repository.Store) error {
			var err error
			cur, changed, err = r.check(ctx, tx, d.PostID, true)
			if err != nil || !changed {
				return err
			}
			return tx.Posts.SetCounts(ctx, cur.PostID, cur.LikesActual, cur.CommentsActual)
		})
		if err != nil {
			return fixed, fmt.Errorf("repair post %s: %w", d.PostID, err)
		}
		if !changed {
			continue
		}
		fixed++
		logger.Info("counter repaired",
			zap.String("post", cur.PostID),
			zap.Int64("likes_from", cur.LikesCount), zap.Int64("likes_to", cur.LikesActual),
			zap.Int64("comments_from", cur.CommentsCount), zap.Int64("comments_to", cur.CommentsActual))
	}
	return fixed, nil
}

// check 重算单帖计数；lock 为 true 时先锁帖子行再计数，
// 使并发点赞的 likes_count+1 排在 SetCounts 之后，不会被覆盖
func (r *CounterReconciler) check(ctx context.Context, s *repository.Store, postID string, lock bool) (Drift, bool, error) {
	get := s.Posts.GetByID
	if lock {
		get = s.Posts.GetByIDForUpdate
	}
	p, err := get(ctx, postID)
	if err != nil {
		return Drift{}, false, err
	}
	likes, err := s.Likes.CountByPost(ctx, postID)
	if err != nil {
		return Drift{}, false, err
	}
	comments, err := s.Comments.CountByPost(ctx, postID)
	if err != nil {
		return Drift{}, false, err
	}
	d := Drift{PostID: postID, LikesCount: p.LikesCount, LikesActual: likes, CommentsCount: p.CommentsCount, CommentsActual: comments}
	return d, likes != p.LikesCount || comments != p.CommentsCount, nil
}
