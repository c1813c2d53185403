package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/engagement/internal/model"
)

type LikeRepository interface {
	// Create 严格插入；(user, post) 已存在时返回 ErrDuplicate
	Create(ctx context.Context, userID, postID string) (*model.Like, error)
	// Delete 返回实际删除的行数，不存在时为 0 且不报错
	Delete(ctx context.Context, userID, postID string) (int64, error)
	Exists(ctx context.Context, userID, postID string) (bool, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
}

type likeRepository struct{ db *gorm.DB }

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Create(ctx context.Context, userID, postID string) (*model.Like, error) {
	l := &model.Like{ID: uuid.New().String(), UserID: userID, PostID: postID, CreatedAt: time.Now()}
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return nil, translate(err)
	}
	return l, nil
}

func (r *likeRepository) Delete(ctx context.Context, userID, postID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Like{})
	return res.RowsAffected, res.Error
}

func (r *likeRepository) Exists(ctx context.Context, userID, postID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *likeRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, err
}
