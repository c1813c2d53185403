package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func signToken(t *testing.T, sub, issuer string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(exp),
	}})
	s, err := tok.SignedString(secret)
	require.NoError(t, err)
	return s
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, UserID(c)) })
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	r := newEngine(Auth(secret, "campus"))

	w := do(r, signToken(t, "u1", "campus", time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, signToken(t, "u1", "campus", time.Now().Add(-time.Minute))).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, signToken(t, "u1", "elsewhere", time.Now().Add(time.Hour))).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, signToken(t, "", "campus", time.Now().Add(time.Hour))).Code)
}

func TestOptionalAuth(t *testing.T) {
	r := newEngine(OptionalAuth(secret, "campus"))

	w := do(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(r, signToken(t, "u2", "campus", time.Now().Add(time.Hour)))
	assert.Equal(t, "u2", w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(0.0001, 2)
	assert.True(t, l.Allow("u1"))
	assert.True(t, l.Allow("u1"))
	assert.False(t, l.Allow("u1"))
	assert.True(t, l.Allow("u2"))

	r := newEngine(NewRateLimiter(0.0001, 1).Middleware())
	assert.Equal(t, http.StatusOK, do(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "").Code)
}
