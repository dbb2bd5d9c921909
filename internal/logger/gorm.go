package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// GormLogger 把 GORM 日志写入 zap
type GormLogger struct {
	logger        *Logger
	level         gormLogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger 创建 GORM 日志适配器，level 取值 silent, error, warn, info
func NewGormLogger(l *Logger, level string) *GormLogger {
	return &GormLogger{
		logger:        l,
		level:         ParseGormLevel(level),
		slowThreshold: 200 * time.Millisecond,
	}
}

// ParseGormLevel 解析 GORM 日志级别
func ParseGormLevel(level string) gormLogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormLogger.Silent
	case "error":
		return gormLogger.Error
	case "info":
		return gormLogger.Info
	default:
		return gormLogger.Warn
	}
}

// LogMode 实现 gormLogger.Interface
func (g *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

// Info 实现 gormLogger.Interface
func (g *GormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if g.level >= gormLogger.Info {
		g.logger.Info(msg, data...)
	}
}

// Warn 实现 gormLogger.Interface
func (g *GormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if g.level >= gormLogger.Warn {
		g.logger.Warn(msg, data...)
	}
}

// Error 实现 gormLogger.Interface
func (g *GormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if g.level >= gormLogger.Error {
		g.logger.Error(msg, data...)
	}
}

// Trace 实现 gormLogger.Interface
func (g *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormLogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && g.level >= gormLogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		g.logger.With(zap.Duration("elapsed", elapsed), zap.Int64("rows", rows)).
			Error("sql error: %v [%s]", err, sql)
	case elapsed > g.slowThreshold && g.level >= gormLogger.Warn:
		sql, rows := fc()
		g.logger.With(zap.Duration("elapsed", elapsed), zap.Int64("rows", rows)).
			Warn("slow sql: %s", sql)
	case g.level >= gormLogger.Info:
		sql, rows := fc()
		g.logger.With(zap.Duration("elapsed", elapsed), zap.Int64("rows", rows)).
			Debug("%s", sql)
	}
}
