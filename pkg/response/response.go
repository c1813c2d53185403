package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/engagement/pkg/logger"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Kinded 由业务错误实现，用于映射 HTTP 状态码
type Kinded interface {
	error
	HTTPStatus() int
	ErrorCode() string
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "success", Data: data})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: http.StatusBadRequest, Message: msg, Error: "BadRequest"})
}

func Unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Code: http.StatusUnauthorized, Message: msg, Error: "Unauthorized"})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Code: http.StatusNotFound, Message: msg, Error: "NotFound"})
}

func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, Response{Code: http.StatusTooManyRequests, Message: "too many requests", Error: "RateLimited"})
}

// InternalError 不向客户端暴露内部错误细节
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error", zap.Error(err), zap.String("path", c.FullPath()))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, Response{Code: http.StatusInternalServerError, Message: "something went wrong", Error: "InternalError"})
}

// Error 按业务错误种类写响应
func Error(c *gin.Context, err error) {
	var k Kinded
	if !errors.As(err, &k) {
		InternalError(c, err)
		return
	}
	status := k.HTTPStatus()
	if status >= http.StatusInternalServerError {
		InternalError(c, err)
		return
	}
	if status == http.StatusUnauthorized {
		Unauthorized(c, k.Error())
		return
	}
	c.JSON(status, Response{Code: status, Message: k.Error(), Error: k.ErrorCode()})
}
