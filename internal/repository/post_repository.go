package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/engagement/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	// GetByIDForUpdate 行锁读取，须在事务内调用；并发的计数增减会等待锁释放
	GetByIDForUpdate(ctx context.Context, id string) (*model.Post, error)
	// AuthorOf 返回作者 ID，用于通知扇出
	AuthorOf(ctx context.Context, id string) (string, error)
	// AddLikes/AddComments 原子增减计数，返回 ErrNotFound 表示帖子不存在
	AddLikes(ctx context.Context, id string, delta int64) error
	AddComments(ctx context.Context, id string, delta int64) error
	// SetCounts 仅供对账修复使用
	SetCounts(ctx context.Context, id string, likes, comments int64) error
	ListFeed(ctx context.Context, viewerID string, authorIDs []string, offset, limit int) ([]*model.Post, error)
	ListIDs(ctx context.Context, afterID string, limit int) ([]string, error)
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *postRepository) GetByIDForUpdate(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *postRepository) AuthorOf(ctx context.Context, id string) (string, error) {
	var authorID string
	res := r.db.WithContext(ctx).Model(&model.Post{}).Select("author_id").Where("id = ?", id).Limit(1).Scan(&authorID)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", ErrNotFound
	}
	return authorID, nil
}

func (r *postRepository) AddLikes(ctx context.Context, id string, delta int64) error {
	return r.addCounter(ctx, id, "likes_count", delta)
}

func (r *postRepository) AddComments(ctx context.Context, id string, delta int64) error {
	return r.addCounter(ctx, id, "comments_count", delta)
}

// addCounter 单条 UPDATE col = col + ?，不在应用层读改写
func (r *postRepository) addCounter(ctx context.Context, id, column string, delta int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) SetCounts(ctx context.Context, id string, likes, comments int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{"likes_count": likes, "comments_count": comments}).Error
}

// ListFeed 倒序时间线：作者本人或关注对象的帖子；FOLLOWERS 可见性仅对关注者/本人可见
func (r *postRepository) ListFeed(ctx context.Context, viewerID string, authorIDs []string, offset, limit int) ([]*model.Post, error) {
	var res []*model.Post
	q := r.db.WithContext(ctx).Where("author_id IN ?", append([]string{viewerID}, authorIDs...))
	err := q.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

// ListIDs 按主键游标分页遍历帖子
func (r *postRepository) ListIDs(ctx context.Context, afterID string, limit int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id > ?", afterID).
		Order("id").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}
