package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/engagement/internal/model"
)

type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	// ListThreads 顶层评论按时间正序，每条附带其回复
	ListThreads(ctx context.Context, postID string) ([]model.CommentThread, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
}

type commentRepository struct{ db *gorm.DB }

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *commentRepository) ListThreads(ctx context.Context, postID string) ([]model.CommentThread, error) {
	var all []model.Comment
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&all).Error; err != nil {
		return nil, err
	}

	threads := make([]model.CommentThread, 0, len(all))
	index := make(map[string]int, len(all))
	for _, c := range all {
		if c.IsTopLevel() {
			index[c.ID] = len(threads)
			threads = append(threads, model.CommentThread{Comment: c, Replies: []model.Comment{}})
		}
	}
	for _, c := range all {
		if c.IsTopLevel() {
			continue
		}
		if i, ok := index[*c.ParentCommentID]; ok {
			threads[i].Replies = append(threads[i].Replies, c)
		}
	}
	return threads, nil
}

func (r *commentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, err
}
