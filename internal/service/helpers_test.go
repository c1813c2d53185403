package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/engagement/internal/events"
	"github.com/d60-Lab/engagement/internal/model"
	"github.com/d60-Lab/engagement/internal/repository"
	"github.com/d60-Lab/engagement/pkg/database"
)

type memUnread struct {
	mu          sync.Mutex
	vals        map[string]int64
	versions    map[string]int64
	invalidated []string
}

func newMemUnread() *memUnread {
	return &memUnread{vals: map[string]int64{}, versions: map[string]int64{}}
}

func (m *memUnread) Get(_ context.Context, userID string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vals[userID]
	return v, ok, nil
}

func (m *memUnread) Version(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versions[userID], nil
}

func (m *memUnread) Fill(_ context.Context, userID string, n, version int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.versions[userID] != version {
		return false, nil
	}
	m.vals[userID] = n
	return true, nil
}

func (m *memUnread) Invalidate(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vals, userID)
	m.versions[userID]++
	m.invalidated = append(m.invalidated, userID)
	return nil
}

type recordingQueue struct {
	mu     sync.Mutex
	events []events.Event
}

func (q *recordingQueue) Enqueue(e events.Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, e)
}

func (q *recordingQueue) all() []events.Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]events.Event(nil), q.events...)
}

type fixture struct {
	db       *gorm.DB
	store    *repository.Store
	counters *CounterReconciler
	unread   *memUnread
	queue    *recordingQueue
	svc      EngagementService
	posts    PostService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	// 单连接，PRAGMA 对整个夹具生效
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store := repository.NewStore(db)
	f := &fixture{db: db, store: store, unread: newMemUnread(), queue: &recordingQueue{}}
	f.counters = NewCounterReconciler(store)
	notifier := NewNotifier(store, f.unread, f.queue)
	f.svc = NewEngagementService(store, f.counters, notifier, time.Second)
	f.posts = NewPostService(store)

	for _, id := range []string{"u1", "u2", "u3"} {
		require.NoError(t, store.Users.Create(context.Background(), &model.User{ID: id, Username: id, Email: id + "@campus.edu"}))
	}
	return f
}

func (f *fixture) post(t *testing.T, authorID string, vis model.Visibility) *model.Post {
	t.Helper()
	p, err := f.posts.Publish(context.Background(), authorID, CreatePostInput{Content: "hi from " + authorID, Visibility: vis})
	require.NoError(t, err)
	return p
}

func (f *fixture) likesCount(t *testing.T, postID string) int64 {
	t.Helper()
	p, err := f.store.Posts.GetByID(context.Background(), postID)
	require.NoError(t, err)
	return p.LikesCount
}

func (f *fixture) notificationsFor(t *testing.T, userID string) []*model.Notification {
	t.Helper()
	rows, err := f.store.Notifications.ListByUser(context.Background(), userID, 100)
	require.NoError(t, err)
	return rows
}
