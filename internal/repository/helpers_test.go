package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/engagement/internal/model"
	"github.com/d60-Lab/engagement/pkg/database"
)

func newTestStore(tb testing.TB) *Store {
	tb.Helper()
	db, err := database.OpenSQLiteMemory()
	require.NoError(tb, err)
	require.NoError(tb, AutoMigrate(db))
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewStore(db)
}

func seedPost(tb testing.TB, s *Store, id, authorID string) *model.Post {
	tb.Helper()
	p := &model.Post{ID: id, AuthorID: authorID, Content: "hello " + id, Visibility: model.VisibilityPublic, CreatedAt: time.Now()}
	require.NoError(tb, s.Posts.Create(context.Background(), p))
	return p
}
