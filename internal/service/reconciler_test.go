package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/engagement/internal/model"
)

func TestReconciler_AuditAndRepair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1 := f.post(t, "u1", model.VisibilityPublic)
	p2 := f.post(t, "u2", model.VisibilityPublic)

	_, err := f.svc.Like(ctx, "u2", p1.ID)
	require.NoError(t, err)
	_, _, err = f.svc.Comment(ctx, "u2", p1.ID, "hello", model.TopLevel())
	require.NoError(t, err)

	drifts, err := f.counters.Audit(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, drifts)

	// 模拟历史遗留的漂移（旧实现的无条件递减）
	require.NoError(t, f.store.Posts.SetCounts(ctx, p1.ID, -1, 1))
	require.NoError(t, f.store.Posts.SetCounts(ctx, p2.ID, 0, 5))

	drifts, err = f.counters.Audit(ctx, 1)
	require.NoError(t, err)
	require.Len(t, drifts, 2)

	fixed, err := f.counters.Repair(ctx, drifts)
	require.NoError(t, err)
	assert.Equal(t, 2, fixed)

	got, err := f.store.Posts.GetByID(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikesCount)
	assert.Equal(t, int64(1), got.CommentsCount)

	got, err = f.store.Posts.GetByID(ctx, p2.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.CommentsCount)

	drifts, err = f.counters.Audit(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestReconciler_RepairSkipsAlreadyConsistent(t *testing.T) {
	f := newFixture(t)
	p := f.post(t, "u1", model.VisibilityPublic)

	fixed, err := f.counters.Repair(context.Background(), []Drift{{PostID: p.ID}})
	require.NoError(t, err)
	assert.Zero(t, fixed)
}
