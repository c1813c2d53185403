package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/d60-Lab/engagement/pkg/response"
)

const ctxUserID = "userID"

// Claims 会话令牌声明；令牌由认证服务签发，本服务只校验
type Claims struct {
	jwt.RegisteredClaims
}

// ParseToken 校验 HS256 令牌并返回用户 ID（sub）
func ParseToken(tokenString string, secret []byte, issuer string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

func bearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// Auth 必须登录
func Auth(secret []byte, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c)
		if token == "" {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		userID, err := ParseToken(token, secret, issuer)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			return
		}
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// OptionalAuth 有合法令牌时注入用户，否则匿名继续
func OptionalAuth(secret []byte, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearer(c); token != "" {
			if userID, err := ParseToken(token, secret, issuer); err == nil {
				c.Set(ctxUserID, userID)
			}
		}
		c.Next()
	}
}

// UserID 返回当前请求的用户 ID，匿名为空串
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
