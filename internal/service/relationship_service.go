package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/engagement/internal/model"
	"github.com/d60-Lab/engagement/internal/repository"
)

// Follow 关注：自关注永远拒绝；重复关注以唯一索引为准返回 AlreadyFollowing
func (s *engagementService) Follow(ctx context.Context, actorID, targetID string) (Outcome, error) {
	if actorID == "" {
		return Outcome{}, ErrUnauthenticated
	}
	if actorID == targetID {
		return Outcome{}, ErrSelfFollow
	}
	exists, err := s.store.Users.Exists(ctx, targetID)
	if err != nil {
		return Outcome{}, internalError(err)
	}
	if !exists {
		return Outcome{}, ErrUserNotFound
	}
	following, err := s.store.Follows.Exists(ctx, actorID, targetID)
	if err != nil {
		return Outcome{}, internalError(err)
	}
	if following {
		return Outcome{}, ErrAlreadyFollowing
	}

	// 粉丝数实时统计，没有需要同事务维护的计数，单条插入即原子
	if _, err := s.store.Follows.Create(ctx, actorID, targetID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return Outcome{}, ErrAlreadyFollowing
		}
		return Outcome{}, mapStoreError(err, ErrUserNotFound)
	}

	return s.fanOut(ctx, "follow", actorID, func(fctx context.Context) (*model.Notification, error) {
		return s.notifier.OnFollow(fctx, actorID, targetID)
	}), nil
}

// Unfollow 幂等，关系不存在也返回成功
func (s *engagementService) Unfollow(ctx context.Context, actorID, targetID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	if _, err := s.store.Follows.Delete(ctx, actorID, targetID); err != nil {
		return internalError(err)
	}
	return nil
}

func (s *engagementService) FollowStats(ctx context.Context, viewerID, userID string) (*model.FollowStats, error) {
	exists, err := s.store.Users.Exists(ctx, userID)
	if err != nil {
		return nil, internalError(err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}
	followers, following, err := s.counters.FollowCounts(ctx, userID)
	if err != nil {
		return nil, internalError(err)
	}
	stats := &model.FollowStats{UserID: userID, Followers: followers, Following: following}
	if viewerID != "" && viewerID != userID {
		if stats.IsFollowing, err = s.store.Follows.Exists(ctx, viewerID, userID); err != nil {
			return nil, internalError(err)
		}
	}
	return stats, nil
}

func (s *engagementService) ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]string, error) {
	offset, limit := pagination(page, pageSize)
	items, err := s.store.Follows.ListFollowings(ctx, userID, offset, limit)
	if err != nil {
		return nil, internalError(err)
	}
	res := make([]string, len(items))
	for i, it := range items {
		res[i] = it.FollowingID
	}
	return res, nil
}

func (s *engagementService) ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]string, error) {
	offset, limit := pagination(page, pageSize)
	items, err := s.store.Follows.ListFollowers(ctx, userID, offset, limit)
	if err != nil {
		return nil, internalError(err)
	}
	res := make([]string, len(items))
	for i, it := range items {
		res[i] = it.FollowerID
	}
	return res, nil
}

func pagination(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return (page - 1) * pageSize, pageSize
}

// canView FOLLOWERS 可见性：作者本人或其关注者
func canView(ctx context.Context, store *repository.Store, viewerID string, p *model.Post) (bool, error) {
	if p.Visibility != model.VisibilityFollowers || viewerID == p.AuthorID {
		return true, nil
	}
	if viewerID == "" {
		return false, nil
	}
	return store.Follows.Exists(ctx, viewerID, p.AuthorID)
}
