package service

import (
	"errors"
	"net/http"
)

// Kind 业务错误分类
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindUnauthenticated
	KindInternal
)

// Error 面向调用方的业务错误
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) ErrorCode() string { return e.Code }

// HTTPStatus 冲突类错误按 400 返回（与前端约定一致）
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

var (
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated, Code: "Unauthorized", Message: "unauthorized"}
	// ErrUnknownActor 令牌合法但用户不存在
	ErrUnknownActor = &Error{Kind: KindUnauthenticated, Code: "Unauthorized", Message: "unknown user"}

	ErrAlreadyLiked     = &Error{Kind: KindConflict, Code: "AlreadyLiked", Message: "already liked"}
	ErrAlreadyFollowing = &Error{Kind: KindConflict, Code: "AlreadyFollowing", Message: "already following"}

	ErrSelfFollow        = &Error{Kind: KindValidation, Code: "SelfFollow", Message: "cannot follow yourself"}
	ErrEmptyContent      = &Error{Kind: KindValidation, Code: "ValidationError", Message: "content is required"}
	ErrContentTooLong    = &Error{Kind: KindValidation, Code: "ValidationError", Message: "content is too long"}
	ErrInvalidParent     = &Error{Kind: KindValidation, Code: "ValidationError", Message: "parent comment must be a top-level comment on the same post"}
	ErrInvalidVisibility = &Error{Kind: KindValidation, Code: "ValidationError", Message: "visibility must be PUBLIC or FOLLOWERS"}

	ErrPostNotFound = &Error{Kind: KindNotFound, Code: "PostNotFound", Message: "post not found"}
	ErrUserNotFound = &Error{Kind: KindNotFound, Code: "UserNotFound", Message: "user not found"}

	// ErrFanout 通知扇出失败；互动本身已提交，不回滚
	ErrFanout = errors.New("notification fan-out failed")
)

// internalError 包装存储层等非预期错误
func internalError(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindInternal, Code: "InternalError", Message: "internal error", Err: err}
}

// KindOf 返回错误分类，非业务错误视为 Internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
