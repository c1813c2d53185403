package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/engagement/internal/model"
)

func TestPublish_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.posts.Publish(ctx, "", CreatePostInput{Content: "x"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.posts.Publish(ctx, "u1", CreatePostInput{Content: " "})
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = f.posts.Publish(ctx, "u1", CreatePostInput{Content: "x", Visibility: "SECRET"})
	assert.ErrorIs(t, err, ErrInvalidVisibility)

	p, err := f.posts.Publish(ctx, "u1", CreatePostInput{Content: "exam tips", Tags: []string{"study", " ", "cs"}})
	require.NoError(t, err)
	assert.Equal(t, model.VisibilityPublic, p.Visibility)
	assert.Equal(t, model.Tags{"study", "cs"}, p.Tags)
	assert.Zero(t, p.LikesCount)

	got, err := f.posts.Get(ctx, "u2", p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Tags{"study", "cs"}, got.Tags)
}

func TestGet_FollowersOnlyVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.post(t, "u1", model.VisibilityFollowers)

	_, err := f.posts.Get(ctx, "u2", p.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = f.posts.Get(ctx, "", p.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = f.posts.Get(ctx, "u1", p.ID)
	assert.NoError(t, err)

	_, err = f.svc.Follow(ctx, "u2", "u1")
	require.NoError(t, err)
	_, err = f.posts.Get(ctx, "u2", p.ID)
	assert.NoError(t, err)
}

func TestFeed_ReverseChronologicalFromFollowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	own := f.post(t, "u1", model.VisibilityPublic)
	time.Sleep(2 * time.Millisecond)
	followed := f.post(t, "u2", model.VisibilityFollowers)
	time.Sleep(2 * time.Millisecond)
	f.post(t, "u3", model.VisibilityPublic)

	_, err := f.svc.Follow(ctx, "u1", "u2")
	require.NoError(t, err)

	feed, err := f.posts.Feed(ctx, "u1", 1, 10)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, followed.ID, feed[0].ID)
	assert.Equal(t, own.ID, feed[1].ID)

	_, err = f.posts.Feed(ctx, "", 1, 10)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
