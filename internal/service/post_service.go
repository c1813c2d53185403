package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/engagement/internal/model"
	"github.com/d60-Lab/engagement/internal/repository"
)

const maxPostRunes = 5000

// CreatePostInput 发帖参数
type CreatePostInput struct {
	Content    string
	Tags       []string
	Visibility model.Visibility
}

// PostService 帖子读写（计数字段只读，由 CounterReconciler 维护）
type PostService interface {
	Publish(ctx context.Context, authorID string, in CreatePostInput) (*model.Post, error)
	Get(ctx context.Context, viewerID, postID string) (*model.Post, error)
	Feed(ctx context.Context, viewerID string, page, pageSize int) ([]*model.Post, error)
}

type postService struct{ store *repository.Store }

func NewPostService(store *repository.Store) PostService { return &postService{store: store} }

func (s *postService) Publish(ctx context.Context, authorID string, in CreatePostInput) (*model.Post, error) {
	if authorID == "" {
		return nil, ErrUnauthenticated
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len([]rune(content)) > maxPostRunes {
		return nil, ErrContentTooLong
	}
	vis := in.Visibility
	if vis == "" {
		vis = model.VisibilityPublic
	}
	if !vis.Valid() {
		return nil, ErrInvalidVisibility
	}

	tags := make(model.Tags, 0, len(in.Tags))
	for _, t := range in.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	now := time.Now()
	p := &model.Post{
		ID:         uuid.New().String(),
		AuthorID:   authorID,
		Content:    content,
		Tags:       tags,
		Visibility: vis,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Posts.Create(ctx, p); err != nil {
		return nil, internalError(err)
	}
	return p, nil
}

func (s *postService) Get(ctx context.Context, viewerID, postID string) (*model.Post, error) {
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

// Feed 本人及关注对象的帖子，按时间倒序
func (s *postService) Feed(ctx context.Context, viewerID string, page, pageSize int) ([]*model.Post, error) {
	if viewerID == "" {
		return nil, ErrUnauthenticated
	}
	following, err := s.store.Follows.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, internalError(err)
	}
	offset, limit := pagination(page, pageSize)
	posts, err := s.store.Posts.ListFeed(ctx, viewerID, following, offset, limit)
	if err != nil {
		return nil, internalError(err)
	}
	return posts, nil
}
