package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/engagement/config"
	"github.com/d60-Lab/engagement/internal/api/handler"
	"github.com/d60-Lab/engagement/internal/middleware"
	"github.com/d60-Lab/engagement/internal/model"
	"github.com/d60-Lab/engagement/internal/repository"
	"github.com/d60-Lab/engagement/internal/service"
	"github.com/d60-Lab/engagement/pkg/database"
	"github.com/d60-Lab/engagement/pkg/response"
)

const testSecret = "router-secret"

type env struct {
	t      *testing.T
	server http.Handler
	store  *repository.Store
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	store := repository.NewStore(db)
	for _, id := range []string{"alice", "bob"} {
		require.NoError(t, store.Users.Create(context.Background(), &model.User{ID: id, Username: id, Email: id + "@campus.edu"}))
	}

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.JWT.Secret = testSecret
	cfg.JWT.Issuer = "campus"
	cfg.RateLimit.RPS = 1000
	cfg.RateLimit.Burst = 1000

	engagement := service.NewEngagementService(store, service.NewCounterReconciler(store), service.NewNotifier(store, nil, nil), time.Second)
	h := handler.NewHandler(engagement, service.NewPostService(store))
	return &env{t: t, server: Setup(cfg, h), store: store}
}

func (e *env) token(sub string) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    "campus",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(e.t, err)
	return s
}

func (e *env) do(method, path, user, body string) (*httptest.ResponseRecorder, response.Response) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+e.token(user))
	}
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)
	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHealthz(t *testing.T) {
	e := newEnv(t)
	w, _ := e.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequiresAuth(t *testing.T) {
	e := newEnv(t)
	w, _ := e.do(http.MethodPost, "/api/v1/posts/x/like", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = e.do(http.MethodGet, "/api/v1/notifications", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEngagementFlow(t *testing.T) {
	e := newEnv(t)

	w, resp := e.do(http.MethodPost, "/api/v1/posts", "alice", `{"content":"hello campus","tags":["cs"]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	postID := resp.Data.(map[string]interface{})["id"].(string)

	w, resp = e.do(http.MethodPost, "/api/v1/posts/"+postID+"/like", "bob", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"success": true}, resp.Data)

	w, resp = e.do(http.MethodPost, "/api/v1/posts/"+postID+"/like", "bob", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "AlreadyLiked", resp.Error)

	w, _ = e.do(http.MethodPost, "/api/v1/posts/"+postID+"/comments", "bob", `{"content":"nice post"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = e.do(http.MethodPost, "/api/v1/users/alice/follow", "bob", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, resp = e.do(http.MethodPost, "/api/v1/users/bob/follow", "bob", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "SelfFollow", resp.Error)

	_, resp = e.do(http.MethodGet, "/api/v1/users/alice/stats", "bob", "")
	stats := resp.Data.(map[string]interface{})
	assert.EqualValues(t, 1, stats["followers"])
	assert.Equal(t, true, stats["isFollowing"])

	_, resp = e.do(http.MethodGet, "/api/v1/notifications/unread-count", "alice", "")
	assert.EqualValues(t, 3, resp.Data.(map[string]interface{})["count"])

	w, resp = e.do(http.MethodGet, "/api/v1/notifications", "alice", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data, 3)

	_, resp = e.do(http.MethodGet, "/api/v1/notifications/unread-count", "alice", "")
	assert.EqualValues(t, 0, resp.Data.(map[string]interface{})["count"])

	w, _ = e.do(http.MethodDelete, "/api/v1/posts/"+postID+"/like", "bob", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = e.do(http.MethodDelete, "/api/v1/posts/"+postID+"/like", "bob", "")
	assert.Equal(t, http.StatusOK, w.Code)

	_, resp = e.do(http.MethodGet, "/api/v1/posts/"+postID, "", "")
	post := resp.Data.(map[string]interface{})
	assert.EqualValues(t, 0, post["likesCount"])
	assert.EqualValues(t, 1, post["commentsCount"])
}

func TestLikeMissingPost(t *testing.T) {
	e := newEnv(t)
	w, resp := e.do(http.MethodPost, "/api/v1/posts/nope/like", "bob", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PostNotFound", resp.Error)
}
