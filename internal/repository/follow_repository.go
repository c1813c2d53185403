package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/engagement/internal/model"
)

type FollowRepository interface {
	// Create 严格插入；重复关注返回 ErrDuplicate，由唯一索引仲裁并发
	Create(ctx context.Context, followerID, followingID string) (*model.Follow, error)
	// Delete 返回实际删除行数
	Delete(ctx context.Context, followerID, followingID string) (int64, error)
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	ListFollowings(ctx context.Context, followerID string, offset, limit int) ([]*model.Follow, error)
	ListFollowers(ctx context.Context, followingID string, offset, limit int) ([]*model.Follow, error)
	FollowingIDs(ctx context.Context, followerID string) ([]string, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowings(ctx context.Context, userID string) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followingID string) (*model.Follow, error) {
	f := &model.Follow{ID: uuid.New().String(), FollowerID: followerID, FollowingID: followingID, CreatedAt: time.Now()}
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		return nil, translate(err)
	}
	return f, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{})
	return res.RowsAffected, res.Error
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) ListFollowings(ctx context.Context, followerID string, offset, limit int) ([]*model.Follow, error) {
	var res []*model.Follow
	err := r.db.WithContext(ctx).Where("follower_id = ?", followerID).Order("created_at DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (r *followRepository) ListFollowers(ctx context.Context, followingID string, offset, limit int) ([]*model.Follow, error) {
	var res []*model.Follow
	err := r.db.WithContext(ctx).Where("following_id = ?", followingID).Order("created_at DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (r *followRepository) FollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("follower_id = ?", followerID).Pluck("following_id", &ids).Error
	return ids, err
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("following_id = ?", userID).Count(&cnt).Error
	return cnt, err
}

func (r *followRepository) CountFollowings(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&cnt).Error
	return cnt, err
}
