package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/engagement/internal/model"
)

func TestForeignKeys_RejectUnknownUserOrPost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.DB().Exec("PRAGMA foreign_keys = ON").Error)

	require.NoError(t, s.Users.Create(ctx, &model.User{ID: "u1", Username: "u1", Email: "u1@campus.edu"}))
	require.NoError(t, s.Users.Create(ctx, &model.User{ID: "u2", Username: "u2", Email: "u2@campus.edu"}))
	seedPost(t, s, "p1", "u1")

	_, err := s.Likes.Create(ctx, "ghost", "p1")
	assert.ErrorIs(t, err, ErrMissingRef)
	_, err = s.Likes.Create(ctx, "u2", "missing")
	assert.ErrorIs(t, err, ErrMissingRef)
	_, err = s.Likes.Create(ctx, "u2", "p1")
	assert.NoError(t, err)

	_, err = s.Follows.Create(ctx, "ghost", "u1")
	assert.ErrorIs(t, err, ErrMissingRef)
	_, err = s.Follows.Create(ctx, "u2", "u1")
	assert.NoError(t, err)

	err = s.Comments.Create(ctx, &model.Comment{ID: "c1", PostID: "p1", AuthorID: "ghost", Content: "x"})
	assert.ErrorIs(t, err, ErrMissingRef)

	err = s.Posts.Create(ctx, &model.Post{ID: "p2", AuthorID: "ghost", Content: "x", Visibility: model.VisibilityPublic})
	assert.ErrorIs(t, err, ErrMissingRef)
}
