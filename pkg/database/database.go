package database

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/engagement/config"
	"github.com/d60-Lab/engagement/pkg/logger"
)

// InitDB 根据配置打开数据库连接（postgres 为主，sqlite 用于本地/测试）
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dc := cfg.Database

	var dialector gorm.Dialector
	switch strings.ToLower(dc.Driver) {
	case "postgres", "":
		dialector = postgres.Open(dc.DSN)
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(dc.DSN))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dc.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(parseLogLevel(dc.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if dc.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(dc.MaxOpenConns)
	}
	if dc.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(dc.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info("database connected", zap.String("driver", dc.Driver))
	return db, nil
}

// OpenSQLiteMemory 打开一个单连接的内存 sqlite，测试与基准共用
func OpenSQLiteMemory() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         newGormLogger(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// 内存库每个连接各自独立，限制为单连接
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func parseLogLevel(s string) gormlogger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// sqliteDSN sqlite 默认不检查外键，需在连接参数中打开
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}
