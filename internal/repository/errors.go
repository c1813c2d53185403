package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrDuplicate 唯一约束冲突（重复点赞、重复关注）
	ErrDuplicate = errors.New("repository: duplicate edge")
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("repository: record not found")
	// ErrMissingRef 外键指向的用户或帖子不存在
	ErrMissingRef = errors.New("repository: referenced row does not exist")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate 将驱动层错误归一化为仓储错误
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if isForeignKeyViolation(err) {
		return ErrMissingRef
	}
	return err
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// sqlite: "UNIQUE constraint failed: likes.user_id, likes.post_id"
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
